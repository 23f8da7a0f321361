package drive

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"matchplanner/internal/config"
)

// Client wraps the Google Drive API for attachment binaries. Files live in
// one configured folder; the original file name stays in the database while
// Drive gets a unique name.
type Client struct {
	files       *gdrive.FilesService
	permissions *gdrive.PermissionsService
	folderID    string
}

type UploadResult struct {
	FileID       string
	WebViewLink  string
	DownloadLink string
}

func New(ctx context.Context, cfg config.Drive) (*Client, error) {
	const op = "drive.New"

	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%s: refresh token is not configured", op)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gdrive.DriveFileScope},
	}
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := gdrive.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		files:       svc.Files,
		permissions: svc.Permissions,
		folderID:    cfg.FolderID,
	}, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// uniqueName keeps uploads collision-free: timestamp, uuid, then the
// sanitized original name.
func uniqueName(fileName string) string {
	base := fileName
	ext := ""
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		base = fileName[:idx]
		ext = fileName[idx:]
	}
	base = unsafeNameChars.ReplaceAllString(base, "_")
	return fmt.Sprintf("%d_%s_%s%s", time.Now().UnixMilli(), uuid.NewString(), base, ext)
}

// Upload stores the file on Drive, makes it world-readable and returns the
// stable id plus view/download links.
func (c *Client) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*UploadResult, error) {
	const op = "drive.Upload"

	meta := &gdrive.File{Name: uniqueName(fileName)}
	if c.folderID != "" {
		meta.Parents = []string{c.folderID}
	}

	file, err := c.files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink", "webContentLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if file.Id == "" {
		return nil, fmt.Errorf("%s: drive returned no file id", op)
	}

	_, err = c.permissions.Create(file.Id, &gdrive.Permission{Role: "reader", Type: "anyone"}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%s: set permissions: %w", op, err)
	}

	result := &UploadResult{
		FileID:       file.Id,
		WebViewLink:  file.WebViewLink,
		DownloadLink: file.WebContentLink,
	}
	if result.WebViewLink == "" {
		result.WebViewLink = fmt.Sprintf("https://drive.google.com/file/d/%s/view", file.Id)
	}
	if result.DownloadLink == "" {
		result.DownloadLink = fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", file.Id)
	}
	return result, nil
}

func (c *Client) Delete(ctx context.Context, fileID string) error {
	const op = "drive.Delete"

	if err := c.files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
