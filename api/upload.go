package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// UploadOrders sends an orders spreadsheet as the sole multipart field named
// "file". The bearer token is attached like any other call, but no JSON
// content type is set: the multipart writer supplies the boundary-aware one.
func (c *Client) UploadOrders(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UploadOrders] CreateFormFile")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadOrders] copy file")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadOrders] close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(RouteFilesUpload, nil), &buf)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UploadOrders] NewRequestWithContext")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.prepareRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var result UploadResult
	if err := c.decodeResponse(resp, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}
