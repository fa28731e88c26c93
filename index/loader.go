package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/models"
)

// ErrUnavailable wraps every failure to fetch or parse the index resource.
var ErrUnavailable = errors.New("photo index unavailable")

const defaultFetchTimeout = 10 * time.Second

// Loader reads the index resource from a filesystem path or an http(s) URL.
type Loader struct {
	Source  string
	Client  *http.Client
	Metrics metrics.Recorder
}

// NewLoader creates a loader for source. timeout bounds remote fetches.
func NewLoader(source string, timeout time.Duration, rec metrics.Recorder) *Loader {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Loader{
		Source:  source,
		Client:  &http.Client{Timeout: timeout},
		Metrics: rec,
	}
}

// Load fetches and parses the resource. There is no retry; any failure is
// returned wrapped in ErrUnavailable.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	ix, err := l.load(ctx)
	if l.Metrics != nil {
		l.Metrics.RecordIndexLoad(err == nil)
	}
	if err != nil {
		log.Printf("index: failed to load %s: %v", l.Source, err)
		return nil, err
	}
	return ix, nil
}

// LoadState is Load folded into a State.
func (l *Loader) LoadState(ctx context.Context) State {
	ix, err := l.Load(ctx)
	if err != nil {
		return Failed(err)
	}
	return Loaded(ix)
}

func (l *Loader) load(ctx context.Context) (*Index, error) {
	if isRemote(l.Source) {
		return l.fetch(ctx)
	}

	f, err := os.Open(l.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, l.Source, err)
	}
	defer f.Close()
	return Parse(f)
}

func (l *Loader) fetch(ctx context.Context) (*Index, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, l.Source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrUnavailable, l.Source, resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse decodes a JSON array of photo records and validates the minimum
// schema: a unique id, an object name and a file name per record.
func Parse(r io.Reader) (*Index, error) {
	var records []json.RawMessage
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	photos := make([]models.Photo, 0, len(records))
	seen := make(map[int]bool, len(records))
	for i, raw := range records {
		// id is required; a plain int would read a missing id as 0
		var key struct {
			ID *int `json:"id"`
		}
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrUnavailable, i, err)
		}
		if key.ID == nil {
			return nil, fmt.Errorf("%w: record %d: missing id", ErrUnavailable, i)
		}
		var p models.Photo
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrUnavailable, i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: record %d: duplicate id %d", ErrUnavailable, i, p.ID)
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Object) == "" {
			return nil, fmt.Errorf("%w: record %d (id %d): missing object", ErrUnavailable, i, p.ID)
		}
		if p.FileName == "" {
			return nil, fmt.Errorf("%w: record %d (id %d): missing fileName", ErrUnavailable, i, p.ID)
		}
		photos = append(photos, p)
	}
	return New(photos), nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
