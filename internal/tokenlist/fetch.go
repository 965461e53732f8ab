package tokenlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrUnsupportedURI = errors.New("unsupported list uri")

// maxListSize bounds the body read from a list host
const maxListSize = 10 << 20

// Fetcher downloads and validates token lists over HTTP
type Fetcher struct {
	client      *http.Client
	ipfsGateway string
}

// NewFetcher creates a fetcher; ipfs:// and ipns:// URIs are served from ipfsGateway
func NewFetcher(timeout time.Duration, ipfsGateway string) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		ipfsGateway: strings.TrimSuffix(ipfsGateway, "/"),
	}
}

// URIToHTTP returns the HTTP URLs a list URI may be fetched from, in order of preference
func (f *Fetcher) URIToHTTP(uri string) ([]string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		return []string{uri}, nil
	case "http":
		return []string{"https" + uri[len("http"):], uri}, nil
	case "ipfs":
		return []string{f.ipfsGateway + "/ipfs/" + u.Host + u.Path}, nil
	case "ipns":
		return []string{f.ipfsGateway + "/ipns/" + u.Host + u.Path}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
}

// Fetch downloads the list at listURL, trying each candidate URL in turn.
// Validation is skipped for unsupported lists.
func (f *Fetcher) Fetch(ctx context.Context, listURL string, skipValidation bool) (*TokenList, error) {
	urls, err := f.URIToHTTP(listURL)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i, u := range urls {
		list, err := f.fetchOne(ctx, u)
		if err != nil {
			lastErr = err
			if i < len(urls)-1 {
				log.Debug().Err(err).Str("url", u).Msg("List fetch failed, trying next candidate")
			}
			continue
		}

		if !skipValidation {
			if err := list.Validate(); err != nil {
				return nil, err
			}
		}
		return list, nil
	}

	return nil, fmt.Errorf("failed to download list %s: %w", listURL, lastErr)
}

func (f *Fetcher) fetchOne(ctx context.Context, u string) (*TokenList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list host status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListSize))
	if err != nil {
		return nil, fmt.Errorf("read list body: %w", err)
	}
	return Decode(body)
}
