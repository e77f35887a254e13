package palm

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/common/helper"
	"github.com/Laisky/palm-client/relay/model"
)

// MaxResponseBodySize caps how much of a response body is read.
const MaxResponseBodySize = 1 << 20 // 1 MiB

const userAgent = "palm-client/1.0"

// DoRequest POSTs the request payload and returns the raw response.
// The caller must close the response body.
func (a *Adaptor) DoRequest(ctx context.Context, client *http.Client, req *Request) (*http.Response, error) {
	if req == nil || req.Payload == nil {
		return nil, errors.New("request is nil")
	}
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal generateText request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build generateText request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(redactError(err, req.URL), "send generateText request")
	}
	return resp, nil
}

// DoResponse reads and classifies a generateText response and closes its body.
//
// Error payloads usually arrive with a non-2xx status; they are still
// classified so the caller sees the API message. A body that is not JSON is a
// transport failure and returned as an error.
func DoResponse(resp *http.Response) (model.Outcome, []byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodySize))
	if err != nil {
		return model.Outcome{}, body, errors.Wrap(err, "read generateText response")
	}

	outcome, err := Interpret(body)
	if err != nil {
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return model.Outcome{}, body, errors.Errorf("upstream status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return model.Outcome{}, body, err
	}
	return outcome, body, nil
}

// redactError strips the key from the URL a transport error carries.
// A *url.Error is redacted in place so its cause stays reachable.
func redactError(err error, rawURL string) error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		urlErr.URL = helper.RedactURLKey(urlErr.URL)
		return err
	}
	msg := err.Error()
	if rawURL == "" || !strings.Contains(msg, rawURL) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, rawURL, helper.RedactURLKey(rawURL)))
}
