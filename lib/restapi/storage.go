// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package restapi

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/schema"
)

// Upload stores content under name as a multipart "file" field. The
// body is streamed, not buffered.
func (c *Client) Upload(ctx context.Context, name string, content io.Reader) (schema.StoredFile, error) {
	reader, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		part, err := form.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = form.Close()
		}
		writer.CloseWithError(err)
	}()

	response, err := c.do(ctx, request{
		method:      http.MethodPost,
		base:        c.endpoints.Storage,
		route:       "/file",
		path:        "/file",
		body:        reader,
		contentType: form.FormDataContentType(),
	})
	// Unblocks the writer goroutine if the request ended early.
	reader.Close()
	if err != nil {
		return schema.StoredFile{}, err
	}
	defer response.Body.Close()

	var stored schema.StoredFile
	if err := json.NewDecoder(response.Body).Decode(&stored); err != nil {
		return schema.StoredFile{}, notice.Request("POST /file: decoding response: %w", err)
	}
	if stored.UUID == "" {
		return schema.StoredFile{}, notice.Request("POST /file: response has no uuid")
	}
	return stored, nil
}

// Download streams the blob with the given uuid into w and returns its
// content type.
func (c *Client) Download(ctx context.Context, uuid string, w io.Writer) (string, error) {
	response, err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.endpoints.Storage,
		route:  "/file/{uuid}",
		path:   "/file/" + url.PathEscape(uuid),
	})
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	if _, err := io.Copy(w, response.Body); err != nil {
		return "", notice.Request("GET /file/{uuid}: %w", err)
	}
	return response.Header.Get("Content-Type"), nil
}
