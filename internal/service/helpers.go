package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

func GetExpiresAt(expiresIn int64) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// parseGraphTime converts the Graph API's ISO-8601 timestamps. Facebook
// emits both +0000 offsets and the Z suffix.
func parseGraphTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// graphDo issues a Graph API call with access_token and friends as query
// parameters and returns the response body. Any non-2xx status or
// transport failure comes back as *ExternalAPIError; nothing is retried.
func graphDo(ctx context.Context, method, rawURL string, params url.Values) ([]byte, error) {
	u := rawURL
	if len(params) > 0 {
		u = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExternalAPIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
