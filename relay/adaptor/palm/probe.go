package palm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/patrickmn/go-cache"

	"github.com/Laisky/palm-client/relay/connection"
	"github.com/Laisky/palm-client/relay/model"
)

// Prober checks that a connection's key and model are accepted by the API.
// Successful probes are remembered for the cache TTL; failures are not.
type Prober struct {
	adaptor *Adaptor
	client  *http.Client
	cache   *cache.Cache
}

// NewProber returns a Prober. A ttl of zero disables caching.
func NewProber(adaptor *Adaptor, client *http.Client, ttl time.Duration) *Prober {
	p := &Prober{adaptor: adaptor, client: client}
	if ttl > 0 {
		p.cache = cache.New(ttl, 2*ttl)
	}
	return p
}

// Probe fetches the model metadata for conn. An API error payload wraps
// model.ErrRemote with the upstream message.
func (p *Prober) Probe(ctx context.Context, conn connection.Connection) error {
	key := p.cacheKey(conn)
	if p.cache != nil {
		if _, ok := p.cache.Get(key); ok {
			return nil
		}
	}

	modelURL := p.adaptor.GetModelURL(conn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL, nil)
	if err != nil {
		return errors.Wrap(err, "build probe request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(redactError(err, modelURL), "send probe request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodySize))
	if err != nil {
		return errors.Wrap(err, "read probe response")
	}

	var envelope struct {
		Name  string          `json:"name"`
		Error *model.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.Wrapf(err, "decode probe response (status %d)", resp.StatusCode)
	}
	if envelope.Error != nil {
		return errors.Wrap(model.ErrRemote, errorMessage(envelope.Error))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Wrapf(model.ErrRemote, "probe status %d", resp.StatusCode)
	}

	if p.cache != nil {
		p.cache.Set(key, envelope.Name, cache.DefaultExpiration)
	}
	return nil
}

func (p *Prober) cacheKey(conn connection.Connection) string {
	sum := sha256.Sum256([]byte(conn.APIKey()))
	return p.adaptor.host(conn) + "|" + conn.ModelVersion() + "|" + conn.ModelType() + "|" + hex.EncodeToString(sum[:])
}
