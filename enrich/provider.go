package enrich

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harukit/likes-archive/model"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

// Provider fetches the render payload for a tweet ID and classifies the
// outcome.
type Provider interface {
	Fetch(ctx context.Context, tweetID string) (model.FetchResult, error)
}

const syndicationBaseURL = "https://cdn.syndication.twimg.com/tweet-result"

// SyndicationClient fetches tweet render data from the public syndication
// CDN, the same backend the embedding widget uses.
type SyndicationClient struct {
	client *http.Client
}

func NewSyndicationClient() *SyndicationClient {
	return &SyndicationClient{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// syndicationToken derives the request token the CDN expects from the tweet
// ID: (id / 1e15 * pi) rendered in base 36 with zeros and the radix point
// stripped.
func syndicationToken(tweetID string) string {
	id, err := strconv.ParseFloat(tweetID, 64)
	if err != nil {
		return ""
	}
	v := id / 1e15 * math.Pi

	intPart := int64(v)
	frac := v - float64(intPart)
	var b strings.Builder
	b.WriteString(strconv.FormatInt(intPart, 36))
	for i := 0; i < 12 && frac > 0; i++ {
		frac *= 36
		digit := int64(frac)
		b.WriteByte("0123456789abcdefghijklmnopqrstuvwxyz"[digit])
		frac -= float64(digit)
	}

	return strings.ReplaceAll(b.String(), "0", "")
}

// tombstoneProbe is the minimal shape needed to classify a response.
type tombstoneProbe struct {
	TypeName string `json:"__typename"`
}

// Fetch classifies the CDN response: payload, tombstone (private) or not
// found. A non-nil error is a transport level failure; the caller decides
// the conservative default.
func (c *SyndicationClient) Fetch(ctx context.Context, tweetID string) (model.FetchResult, error) {
	query := url.Values{}
	query.Set("id", tweetID)
	query.Set("lang", "en")
	query.Set("token", syndicationToken(tweetID))

	req, err := http.NewRequestWithContext(ctx, "GET", syndicationBaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return model.FetchResult{}, errors.Wrap(err, "fail to build tweet request")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return model.FetchResult{}, errors.Wrap(err, "fail to fetch tweet "+tweetID)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return model.NotFound(), nil
	}
	if res.StatusCode >= 300 {
		return model.FetchResult{}, errors.Errorf("non-200 http code %d for tweet %s", res.StatusCode, tweetID)
	}

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return model.FetchResult{}, errors.Wrap(err, "fail to read tweet response "+tweetID)
	}
	if len(body) == 0 {
		return model.NotFound(), nil
	}

	probe := tombstoneProbe{}
	if err := json.Unmarshal(body, &probe); err != nil {
		Logger.Log.Warnf("unparseable tweet response for %s: %v", tweetID, err)
		return model.NotFound(), nil
	}
	if probe.TypeName == "TweetTombstone" {
		return model.Private(), nil
	}

	return model.Fetched(json.RawMessage(body)), nil
}
