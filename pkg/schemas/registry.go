package schemas

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/WovenCollab/OpenDAPI/internal/embedded"
	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

// Registry resolves contract URLs to compiled Contracts. Embedded contracts
// are preloaded; other URLs on the opendapi.org host are fetched over HTTP
// with a short timeout and cached. URLs off that host are rejected.
type Registry struct {
	mu            sync.RWMutex
	contracts     map[string]*Contract
	latest        map[descriptors.Kind]*Contract
	latestVersion map[descriptors.Kind]string
	client        *http.Client
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient sets the client used to fetch non-embedded contracts.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Registry) {
		if client != nil {
			r.client = client
		}
	}
}

// NewRegistry builds a Registry preloaded with the embedded contracts.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		contracts:     make(map[string]*Contract),
		latest:        make(map[descriptors.Kind]*Contract),
		latestVersion: make(map[descriptors.Kind]string),
		client:        &http.Client{Timeout: constants.SchemaFetchTimeout},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.loadEmbedded(); err != nil {
		return nil, err
	}
	return r, nil
}

// Contract returns the compiled contract for a URL, fetching and caching it
// when it is not embedded. The context bounds the fetch.
func (r *Registry) Contract(ctx context.Context, url string) (*Contract, error) {
	if !strings.HasPrefix(url, constants.SchemaBaseURL) {
		return nil, errors.New("schema URL must start with " + constants.SchemaBaseURL)
	}

	r.mu.RLock()
	contract, ok := r.contracts[url]
	r.mu.RUnlock()
	if ok {
		return contract, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("fetch", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.WrapIO("fetch", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("fetching schema " + url + ": unexpected status " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("fetch", url, err)
	}

	contract, err = NewContract(url, body)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.contracts[url] = contract
	r.mu.Unlock()
	return contract, nil
}

// Latest returns the newest embedded contract for a kind. It is the default
// contract for documents that do not declare one and the contract generated
// templates point at.
func (r *Registry) Latest(kind descriptors.Kind) (*Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contract, ok := r.latest[kind]
	return contract, ok
}

// loadEmbedded compiles every contract under spec/<version>/<entity>.json.
func (r *Registry) loadEmbedded() error {
	return fs.WalkDir(embedded.FS, "spec", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapIO("walk", path, err)
		}
		if d.IsDir() || !strings.HasSuffix(path, constants.JSONSuffix) {
			return nil
		}

		data, err := embedded.FS.ReadFile(path)
		if err != nil {
			return errors.WrapIO("read", path, err)
		}

		parts := strings.Split(path, "/")
		if len(parts) != 3 {
			return nil
		}
		version := parts[1]
		entity := strings.TrimSuffix(parts[2], constants.JSONSuffix)
		url := constants.SchemaBaseURL + "spec/" + version + "/" + entity + constants.JSONSuffix

		contract, err := NewContract(url, data)
		if err != nil {
			return err
		}
		r.contracts[url] = contract

		kind, ok := descriptors.ParseKind(entity)
		if !ok {
			return nil
		}
		if current, tracked := r.latestVersion[kind]; !tracked || newerVersion(version, current) {
			r.latestVersion[kind] = version
			r.latest[kind] = contract
		}
		return nil
	})
}

// newerVersion reports whether version a is newer than b, comparing
// dash-delimited numeric segments like "0-0-1".
func newerVersion(a, b string) bool {
	as := strings.Split(a, "-")
	bs := strings.Split(b, "-")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr != nil || berr != nil {
			return a > b
		}
		if an != bn {
			return an > bn
		}
	}
	return len(as) > len(bs)
}
