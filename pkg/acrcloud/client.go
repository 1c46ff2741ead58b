// pkg/acrcloud/client.go
package acrcloud

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrFileNotFound is returned when the sample path does not exist locally.
	ErrFileNotFound = errors.New("acrcloud: audio file not found")
	// ErrService covers network, timeout and non-200 failures.
	ErrService = errors.New("acrcloud: recognition service failure")
	// ErrMalformedResponse is returned when the payload is not valid JSON.
	ErrMalformedResponse = errors.New("acrcloud: malformed response")
)

const (
	identifyPath     = "/v1/identify"
	dataType         = "audio"
	signatureVersion = "1"
)

// Client talks to the ACRCloud identify endpoint. Host, credentials and
// timeout are injected; nothing is read from the environment here.
type Client struct {
	host       string
	accessKey  string
	secret     string
	matchLen   int
	httpClient *http.Client
}

func NewClient(host, accessKey, secret string, timeout time.Duration, matchLen int) *Client {
	return &Client{
		host:       host,
		accessKey:  accessKey,
		secret:     secret,
		matchLen:   matchLen,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Recognize uploads the audio file and returns the parsed identify response.
// A non-zero status.code is not an error here; the caller decides what the
// service's own failure codes mean. Safe to call from any goroutine, so
// callers dispatch it off the update-handling path.
func (c *Client) Recognize(ctx context.Context, filePath string) (*Response, error) {
	sample, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	req, err := c.buildRequest(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrService, resp.StatusCode, body)
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &parsed, nil
}

func (c *Client) buildRequest(ctx context.Context, sample []byte) (*http.Request, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("sample", "sample.mp3")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(sample); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"access_key":        c.accessKey,
		"sample_bytes":      strconv.Itoa(len(sample)),
		"timestamp":         timestamp,
		"signature":         c.sign(timestamp),
		"data_type":         dataType,
		"signature_version": signatureVersion,
		"rec_length":        strconv.Itoa(c.matchLen),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

func (c *Client) endpoint() string {
	host := c.host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host + identifyPath
}

// sign builds the HMAC-SHA1 request signature the identify endpoint expects.
func (c *Client) sign(timestamp string) string {
	toSign := strings.Join([]string{
		http.MethodPost,
		identifyPath,
		c.accessKey,
		dataType,
		signatureVersion,
		timestamp,
	}, "\n")
	mac := hmac.New(sha1.New, []byte(c.secret))
	mac.Write([]byte(toSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
