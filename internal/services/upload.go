package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// MaxAttachmentSize is the per-file upload limit (10 MB).
const MaxAttachmentSize = 10485760

// UploadResult is what the object store hands back for one file.
type UploadResult struct {
	URL      string `json:"url"`
	ObjectID string `json:"object_id"` // deletion handle
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

// Storage is the external object store boundary. Delete is idempotent:
// removing an unknown handle is not an error.
type Storage interface {
	Upload(header *multipart.FileHeader) (*UploadResult, error)
	Delete(objectID string) error
}

// Store is the active object store. Swapped out in tests.
var Store Storage = NewImgurStore()

// ImgurResponse is the Imgur API envelope.
type ImgurResponse struct {
	Data struct {
		ID         string `json:"id"`
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
		Type       string `json:"type"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// ImgurStore uploads attachments to Imgur.
type ImgurStore struct {
	client  *http.Client
	baseURL string
}

func NewImgurStore() *ImgurStore {
	return &ImgurStore{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.imgur.com/3",
	}
}

func (s *ImgurStore) Upload(header *multipart.FileHeader) (*UploadResult, error) {
	clientID := os.Getenv("IMGUR_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("IMGUR_CLIENT_ID is not configured")
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	base64Image := base64.StdEncoding.EncodeToString(fileBytes)

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)
	if err := writer.WriteField("image", base64Image); err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	if err := writer.WriteField("type", "base64"); err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest("POST", s.baseURL+"/image", &requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+clientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var imgurResp ImgurResponse
	if err := json.Unmarshal(body, &imgurResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !imgurResp.Success {
		return nil, fmt.Errorf("imgur upload failed: status %d", imgurResp.Status)
	}

	return &UploadResult{
		URL:      imgurResp.Data.Link,
		ObjectID: imgurResp.Data.DeleteHash,
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}

// Delete removes an uploaded object by its deletehash. Imgur answers 404
// for unknown handles; that counts as deleted.
func (s *ImgurStore) Delete(objectID string) error {
	if objectID == "" {
		return nil
	}
	clientID := os.Getenv("IMGUR_CLIENT_ID")
	if clientID == "" {
		return fmt.Errorf("IMGUR_CLIENT_ID is not configured")
	}

	req, err := http.NewRequest("DELETE", s.baseURL+"/image/"+objectID, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+clientID)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("imgur delete failed: status %d", resp.StatusCode)
	}
	return nil
}
