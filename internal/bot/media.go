package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPhotoBytes caps a single photo download.
const maxPhotoBytes = 10 << 20

var errPhotoTooLarge = errors.New("photo exceeds size limit")

// TelegramMedia downloads chat photos through the Bot API file endpoint.
type TelegramMedia struct {
	api    API
	client *http.Client
}

func NewTelegramMedia(api API, client *http.Client) *TelegramMedia {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &TelegramMedia{api: api, client: client}
}

func (m *TelegramMedia) Fetch(ctx context.Context, fileID string, w io.Writer) error {
	url, err := m.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}
	n, err := io.Copy(w, io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	if n > maxPhotoBytes {
		return errPhotoTooLarge
	}
	return nil
}
