package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/jaanekhana/internal/models"
)

type WizardEventKind string

const (
	EventDietChosen       WizardEventKind = "diet_chosen"
	EventConditionToggled WizardEventKind = "condition_toggled"
	EventConditionsDone   WizardEventKind = "conditions_done"
	EventAllergyToggled   WizardEventKind = "allergy_toggled"
	EventAllergiesDone    WizardEventKind = "allergies_done"
	EventGoalChosen       WizardEventKind = "goal_chosen"
)

// Callback payload prefixes of the wizard buttons.
const (
	PrefixDiet      = "diet_"
	PrefixCondition = "cond_"
	PrefixAllergy   = "allergy_"
	PrefixGoal      = "goal_"
	DoneValue       = "done"
)

type WizardEvent struct {
	Kind  WizardEventKind
	Value string
}

// ParseWizardEvent decodes a button payload such as "cond_bp" or
// "allergy_done". Values are validated later, against the current step.
func ParseWizardEvent(data string) (WizardEvent, bool) {
	switch {
	case strings.HasPrefix(data, PrefixDiet):
		return WizardEvent{Kind: EventDietChosen, Value: strings.TrimPrefix(data, PrefixDiet)}, true
	case data == PrefixCondition+DoneValue:
		return WizardEvent{Kind: EventConditionsDone}, true
	case strings.HasPrefix(data, PrefixCondition):
		return WizardEvent{Kind: EventConditionToggled, Value: strings.TrimPrefix(data, PrefixCondition)}, true
	case data == PrefixAllergy+DoneValue:
		return WizardEvent{Kind: EventAllergiesDone}, true
	case strings.HasPrefix(data, PrefixAllergy):
		return WizardEvent{Kind: EventAllergyToggled, Value: strings.TrimPrefix(data, PrefixAllergy)}, true
	case strings.HasPrefix(data, PrefixGoal):
		return WizardEvent{Kind: EventGoalChosen, Value: strings.TrimPrefix(data, PrefixGoal)}, true
	}
	return WizardEvent{}, false
}

// WizardView tells the front door what to render after an event.
type WizardView struct {
	Step       models.ProfileStep
	Language   models.Language
	Conditions []models.Condition
	Allergies  []models.Allergen
	Completed  bool
	// Ignored events must be acknowledged without re-rendering.
	Ignored bool
}

type WizardService interface {
	// Start discards any in-progress answers and opens the diet step.
	Start(ctx context.Context, userID string, lang models.Language) (WizardView, error)
	Handle(ctx context.Context, userID string, ev WizardEvent) (WizardView, error)
}

type transitionKey struct {
	step models.ProfileStep
	kind WizardEventKind
}

// transition mutates sess in place. Returning errIgnored leaves the
// stored session unchanged.
type transition func(ctx context.Context, userID string, sess *models.Session, value string) error

var errIgnored = errors.New("wizard event ignored")

type wizardService struct {
	sessions SessionService
	profiles ProfileService
	table    map[transitionKey]transition
}

func NewWizardService(sessions SessionService, profiles ProfileService) WizardService {
	s := &wizardService{sessions: sessions, profiles: profiles}
	s.table = map[transitionKey]transition{
		{models.StepDiet, EventDietChosen}:             s.chooseDiet,
		{models.StepConditions, EventConditionToggled}: s.toggleCondition,
		{models.StepConditions, EventConditionsDone}:   advance(models.StepAllergies),
		{models.StepAllergies, EventAllergyToggled}:    s.toggleAllergy,
		{models.StepAllergies, EventAllergiesDone}:     advance(models.StepGoal),
		{models.StepGoal, EventGoalChosen}:             s.chooseGoal,
	}
	return s
}

func (s *wizardService) Start(ctx context.Context, userID string, lang models.Language) (WizardView, error) {
	sess, err := s.sessions.Update(ctx, userID, func(sess *models.Session) error {
		sess.ProfileStep = models.StepDiet
		sess.TempProfile = models.NewTempProfile()
		return nil
	})
	if err != nil {
		return WizardView{}, err
	}
	v := viewOf(sess)
	v.Language = lang
	return v, nil
}

func (s *wizardService) Handle(ctx context.Context, userID string, ev WizardEvent) (WizardView, error) {
	completed := false
	sess, err := s.sessions.Update(ctx, userID, func(sess *models.Session) error {
		tr, ok := s.table[transitionKey{sess.ProfileStep, ev.Kind}]
		if !ok || sess.TempProfile == nil {
			return errIgnored
		}
		if err := tr(ctx, userID, sess, ev.Value); err != nil {
			return err
		}
		completed = !sess.InWizard()
		return nil
	})
	if errors.Is(err, errIgnored) {
		return WizardView{Language: sess.LanguageOrDefault(), Ignored: true}, nil
	}
	if err != nil {
		return WizardView{}, err
	}
	v := viewOf(sess)
	v.Completed = completed
	return v, nil
}

func viewOf(sess models.Session) WizardView {
	v := WizardView{Step: sess.ProfileStep, Language: sess.LanguageOrDefault()}
	if sess.TempProfile != nil {
		v.Conditions = sess.TempProfile.Conditions
		v.Allergies = sess.TempProfile.Allergies
	}
	return v
}

func (s *wizardService) chooseDiet(_ context.Context, _ string, sess *models.Session, value string) error {
	d, ok := models.ParseDiet(value)
	if !ok {
		return errIgnored
	}
	tp := *sess.TempProfile
	tp.Diet = d
	sess.TempProfile = &tp
	sess.ProfileStep = models.StepConditions
	return nil
}

func (s *wizardService) toggleCondition(_ context.Context, _ string, sess *models.Session, value string) error {
	c, ok := models.ParseCondition(value)
	if !ok {
		return errIgnored
	}
	tp := *sess.TempProfile
	tp.Conditions = models.Toggle(tp.Conditions, c)
	sess.TempProfile = &tp
	return nil
}

func (s *wizardService) toggleAllergy(_ context.Context, _ string, sess *models.Session, value string) error {
	a, ok := models.ParseAllergen(value)
	if !ok {
		return errIgnored
	}
	tp := *sess.TempProfile
	tp.Allergies = models.Toggle(tp.Allergies, a)
	sess.TempProfile = &tp
	return nil
}

func advance(next models.ProfileStep) transition {
	return func(_ context.Context, _ string, sess *models.Session, _ string) error {
		sess.ProfileStep = next
		return nil
	}
}

// chooseGoal saves the finished profile before the wizard state is
// cleared, so a failed save keeps the user on the goal step.
func (s *wizardService) chooseGoal(ctx context.Context, userID string, sess *models.Session, value string) error {
	g, ok := models.ParseGoal(value)
	if !ok {
		return errIgnored
	}
	if err := s.profiles.Save(ctx, userID, sess.TempProfile.Finalize(g)); err != nil {
		return err
	}
	sess.ProfileStep = models.StepNone
	sess.TempProfile = nil
	return nil
}
