package analysis

import (
	"context"
	"errors"
	"net/http"

	"github.com/yoockh/jaanekhana/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Image is a label photo on local disk.
type Image struct {
	Path     string
	MIMEType string
}

// Provider turns label photos into structured data and spoken prose.
type Provider interface {
	ExtractLabel(ctx context.Context, img Image) (*models.LabelReport, error)
	Summarize(ctx context.Context, report *models.LabelReport, profile *models.UserProfile, lang models.Language) (string, error)
	CheckClaims(ctx context.Context, img Image, lang models.Language) (*models.ClaimsReport, error)
	// AnalyzeLabel goes from photo to summary in one request.
	AnalyzeLabel(ctx context.Context, img Image, profile *models.UserProfile, lang models.Language) (string, error)
	Close() error
}

var (
	ErrOverloaded    = errors.New("analysis provider overloaded")
	ErrEmptyResponse = errors.New("analysis provider returned empty response")
	ErrMalformedJSON = errors.New("analysis provider returned malformed JSON")
)

// IsOverloaded reports whether err is a transient capacity error worth a
// single retry.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOverloaded) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusServiceUnavailable || gerr.Code == http.StatusTooManyRequests
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.ResourceExhausted:
			return true
		}
	}
	return false
}
