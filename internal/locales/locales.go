// Package locales holds the user-facing message catalogue of the bot.
package locales

import (
	"fmt"

	"github.com/yoockh/jaanekhana/internal/models"
)

type Key string

const (
	ChooseLanguage    Key = "choose_language"
	LanguageSet       Key = "language_set"
	InvalidLanguage   Key = "invalid_language"
	SelectDiet        Key = "select_diet"
	SelectConditions  Key = "select_conditions"
	SelectAllergies   Key = "select_allergies"
	SelectGoal        Key = "select_goal"
	ProfileSaved      Key = "profile_saved"
	Done              Key = "done"
	ProfileRequired   Key = "profile_required"
	StillProcessing   Key = "still_processing"
	ChooseAction      Key = "choose_action"
	ActionAnalyze     Key = "action_analyze"
	ActionClaims      Key = "action_claims"
	NoPhoto           Key = "no_photo"
	Analyzing         Key = "analyzing"
	AnalysisHeader    Key = "analysis_header"
	ClaimsHeader      Key = "claims_header"
	NoMisleading      Key = "no_misleading"
	ProcessingFailed  Key = "processing_failed"
	AudioTitle        Key = "audio_title"
	AudioCaption      Key = "audio_caption"
	SendPhotoFallback Key = "send_photo"
)

// NoMisleadingClaimsEN is the claims-check result when nothing is reported.
const NoMisleadingClaimsEN = "No misleading claims detected. This product's marketing appears truthful."

var catalogue = map[models.Language]map[Key]string{
	models.LangEnglish: {
		ChooseLanguage:    "Please select your preferred language:",
		LanguageSet:       "Language set to: %s",
		InvalidLanguage:   "Invalid language",
		SelectDiet:        "Select your diet:",
		SelectConditions:  "Select health conditions:",
		SelectAllergies:   "Select food allergies:",
		SelectGoal:        "What is your goal?",
		ProfileSaved:      "✅ Profile saved! You can now send food label images.",
		Done:              "DONE ✅",
		ProfileRequired:   "Please complete your profile first. Send /start to begin.",
		StillProcessing:   "⏳ I'm still processing your previous image. Please wait a moment.",
		ChooseAction:      "What would you like me to do with this photo?",
		ActionAnalyze:     "🔍 Analyze Label",
		ActionClaims:      "🏷 Check Claims",
		NoPhoto:           "No photo found. Please send a photo of the food label first.",
		Analyzing:         "🔍 Analyzing (%s)...",
		AnalysisHeader:    "📋 *Food Label Analysis:*",
		ClaimsHeader:      "🏷 *Claims Check:*",
		NoMisleading:      NoMisleadingClaimsEN,
		ProcessingFailed:  "❌ Sorry, I couldn't process that image. Please make sure it's a clear photo of a food label.",
		AudioTitle:        "JaaneKhana Audio Advice",
		AudioCaption:      "🔊 Listen to your food label summary",
		SendPhotoFallback: "Send a photo of a food label to continue.",
	},
	models.LangHindi: {
		LanguageSet:       "भाषा सेट की गई: %s",
		SelectDiet:        "अपना आहार चुनें:",
		SelectConditions:  "स्वास्थ्य समस्याएं चुनें:",
		SelectAllergies:   "खाद्य एलर्जी चुनें:",
		SelectGoal:        "आपका लक्ष्य क्या है?",
		ProfileSaved:      "✅ प्रोफ़ाइल सहेजी गई! अब आप फ़ूड लेबल की फ़ोटो भेज सकते हैं।",
		Done:              "पूर्ण ✅",
		ProfileRequired:   "कृपया पहले अपनी प्रोफ़ाइल पूरी करें। शुरू करने के लिए /start भेजें।",
		StillProcessing:   "⏳ मैं अभी आपकी पिछली फ़ोटो पर काम कर रहा हूँ। कृपया थोड़ा इंतज़ार करें।",
		ChooseAction:      "इस फ़ोटो के साथ मैं क्या करूँ?",
		ActionAnalyze:     "🔍 लेबल विश्लेषण",
		ActionClaims:      "🏷 दावों की जाँच",
		NoPhoto:           "कोई फ़ोटो नहीं मिली। कृपया पहले फ़ूड लेबल की फ़ोटो भेजें।",
		Analyzing:         "🔍 विश्लेषण हो रहा है (%s)...",
		AnalysisHeader:    "📋 *फ़ूड लेबल विश्लेषण:*",
		ClaimsHeader:      "🏷 *दावों की जाँच:*",
		NoMisleading:      "कोई भ्रामक दावा नहीं मिला। इस उत्पाद का प्रचार सही प्रतीत होता है।",
		ProcessingFailed:  "❌ क्षमा करें, मैं इस फ़ोटो को प्रोसेस नहीं कर सका। कृपया फ़ूड लेबल की साफ़ फ़ोटो भेजें।",
		AudioCaption:      "🔊 अपने फ़ूड लेबल का सारांश सुनें",
		SendPhotoFallback: "आगे बढ़ने के लिए फ़ूड लेबल की फ़ोटो भेजें।",
	},
	models.LangBengali: {
		LanguageSet:       "ভাষা নির্ধারিত হয়েছে: %s",
		SelectDiet:        "আপনার খাদ্যাভ্যাস নির্বাচন করুন:",
		SelectConditions:  "স্বাস্থ্য সমস্যা নির্বাচন করুন:",
		SelectAllergies:   "খাদ্য এলার্জি নির্বাচন করুন:",
		SelectGoal:        "আপনার লক্ষ্য কী?",
		ProfileSaved:      "✅ প্রোফাইল সংরক্ষিত! এখন আপনি খাদ্য লেবেলের ছবি পাঠাতে পারেন।",
		Done:              "সম্পন্ন ✅",
		ProfileRequired:   "অনুগ্রহ করে প্রথমে আপনার প্রোফাইল সম্পূর্ণ করুন। শুরু করতে /start পাঠান।",
		StillProcessing:   "⏳ আমি এখনও আপনার আগের ছবিটি প্রক্রিয়া করছি। অনুগ্রহ করে একটু অপেক্ষা করুন।",
		ChooseAction:      "এই ছবিটি দিয়ে আমি কী করব?",
		ActionAnalyze:     "🔍 লেবেল বিশ্লেষণ",
		ActionClaims:      "🏷 দাবি যাচাই",
		NoPhoto:           "কোনো ছবি পাওয়া যায়নি। অনুগ্রহ করে প্রথমে খাদ্য লেবেলের ছবি পাঠান।",
		Analyzing:         "🔍 বিশ্লেষণ চলছে (%s)...",
		AnalysisHeader:    "📋 *খাদ্য লেবেল বিশ্লেষণ:*",
		ClaimsHeader:      "🏷 *দাবি যাচাই:*",
		NoMisleading:      "কোনো বিভ্রান্তিকর দাবি পাওয়া যায়নি। এই পণ্যের প্রচার সত্য বলে মনে হচ্ছে।",
		ProcessingFailed:  "❌ দুঃখিত, আমি ছবিটি প্রক্রিয়া করতে পারিনি। অনুগ্রহ করে খাদ্য লেবেলের একটি পরিষ্কার ছবি পাঠান।",
		AudioCaption:      "🔊 আপনার খাদ্য লেবেলের সারাংশ শুনুন",
		SendPhotoFallback: "এগিয়ে যেতে খাদ্য লেবেলের ছবি পাঠান।",
	},
	models.LangAssamese: {
		LanguageSet:       "ভাষা নিৰ্ধাৰণ কৰা হ'ল: %s",
		SelectDiet:        "আপোনাৰ খাদ্যাভ্যাস বাছনি কৰক:",
		SelectConditions:  "স্বাস্থ্য সমস্যা বাছনি কৰক:",
		SelectAllergies:   "খাদ্য এলাৰ্জী বাছনি কৰক:",
		SelectGoal:        "আপোনাৰ লক্ষ্য কি?",
		ProfileSaved:      "✅ প্ৰ'ফাইল সংৰক্ষিত হ'ল! এতিয়া আপুনি খাদ্য লেবেলৰ ফটো পঠিয়াব পাৰে।",
		Done:              "সম্পূৰ্ণ ✅",
		StillProcessing:   "⏳ মই এতিয়াও আপোনাৰ আগৰ ফটোখন প্ৰক্ৰিয়া কৰি আছোঁ। অনুগ্ৰহ কৰি অলপ অপেক্ষা কৰক।",
		NoMisleading:      "কোনো বিভ্ৰান্তিকৰ দাবী পোৱা নগ'ল। এই সামগ্ৰীৰ প্ৰচাৰ সঁচা যেন লাগে।",
		ProcessingFailed:  "❌ দুঃখিত, মই ফটোখন প্ৰক্ৰিয়া কৰিব নোৱাৰিলোঁ। অনুগ্ৰহ কৰি খাদ্য লেবেলৰ এখন পৰিষ্কাৰ ফটো পঠিয়াওক।",
		SendPhotoFallback: "আগবাঢ়িবলৈ খাদ্য লেবেলৰ ফটো পঠিয়াওক।",
	},
	models.LangTamil: {
		LanguageSet:       "மொழி அமைக்கப்பட்டது: %s",
		SelectDiet:        "உங்கள் உணவு முறையை தேர்ந்தெடுக்கவும்:",
		SelectConditions:  "சுகாதார நிலைகளை தேர்ந்தெடுக்கவும்:",
		SelectAllergies:   "உணவு ஒவ்வாமைகளை தேர்ந்தெடுக்கவும்:",
		SelectGoal:        "உங்கள் இலக்கு என்ன?",
		ProfileSaved:      "✅ சுயவிவரம் சேமிக்கப்பட்டது! இப்போது உணவு லேபிள் படங்களை அனுப்பலாம்.",
		Done:              "முடிந்தது ✅",
		ProfileRequired:   "முதலில் உங்கள் சுயவிவரத்தை நிறைவு செய்யவும். தொடங்க /start அனுப்பவும்.",
		StillProcessing:   "⏳ உங்கள் முந்தைய படத்தை இன்னும் செயலாக்கிக் கொண்டிருக்கிறேன். சிறிது நேரம் காத்திருக்கவும்.",
		ChooseAction:      "இந்த படத்தை வைத்து நான் என்ன செய்ய வேண்டும்?",
		ActionAnalyze:     "🔍 லேபிள் பகுப்பாய்வு",
		ActionClaims:      "🏷 கூற்றுகள் சரிபார்ப்பு",
		NoPhoto:           "படம் எதுவும் இல்லை. முதலில் உணவு லேபிளின் படத்தை அனுப்பவும்.",
		Analyzing:         "🔍 பகுப்பாய்வு செய்யப்படுகிறது (%s)...",
		AnalysisHeader:    "📋 *உணவு லேபிள் பகுப்பாய்வு:*",
		ClaimsHeader:      "🏷 *கூற்றுகள் சரிபார்ப்பு:*",
		NoMisleading:      "தவறான கூற்றுகள் எதுவும் கண்டறியப்படவில்லை. இந்த பொருளின் விளம்பரம் உண்மையானதாக தெரிகிறது.",
		ProcessingFailed:  "❌ மன்னிக்கவும், அந்த படத்தை செயலாக்க முடியவில்லை. உணவு லேபிளின் தெளிவான படத்தை அனுப்பவும்.",
		AudioCaption:      "🔊 உங்கள் உணவு லேபிள் சுருக்கத்தைக் கேளுங்கள்",
		SendPhotoFallback: "தொடர உணவு லேபிளின் படத்தை அனுப்பவும்.",
	},
}

// T returns the message for lang, falling back to English.
func T(lang models.Language, key Key) string {
	if m, ok := catalogue[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return catalogue[models.LangEnglish][key]
}

func Tf(lang models.Language, key Key, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}
