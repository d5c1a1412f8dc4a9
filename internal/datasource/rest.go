package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"lingoboard/internal/models"
)

const defaultPageLimit = 100

// RESTSource talks to the platform backend. Every collection endpoint returns a
// paginated Envelope; Load walks all pages of all collections concurrently.
type RESTSource struct {
	baseURL   string
	client    *http.Client
	pageLimit int
	limiter   *rate.Limiter // nil means unlimited
}

type RESTOption func(*RESTSource)

// WithRateLimit caps the request rate to the backend. perSecond <= 0 leaves it unlimited.
func WithRateLimit(perSecond float64, burst int) RESTOption {
	return func(s *RESTSource) {
		if perSecond <= 0 {
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

func NewRESTSource(baseURL string, client *http.Client, pageLimit int, opts ...RESTOption) *RESTSource {
	if client == nil {
		client = http.DefaultClient
	}
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	s := &RESTSource{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		pageLimit: pageLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RESTSource) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { snap.Users, err = fetchAll[models.User](ctx, s, "/users"); return })
	g.Go(func() (err error) { snap.Badges, err = fetchAll[models.Badge](ctx, s, "/badges"); return })
	g.Go(func() (err error) { snap.Rules, err = fetchAll[models.CommunityRule](ctx, s, "/rules"); return })
	g.Go(func() (err error) { snap.Posts, err = fetchAll[models.Post](ctx, s, "/posts"); return })
	g.Go(func() (err error) { snap.Comments, err = fetchAll[models.Comment](ctx, s, "/comments"); return })
	g.Go(func() (err error) { snap.Likes, err = fetchAll[models.PostLike](ctx, s, "/likes"); return })
	g.Go(func() (err error) { snap.Views, err = fetchAll[models.PostView](ctx, s, "/views"); return })
	g.Go(func() (err error) { snap.Violations, err = fetchAll[models.Violation](ctx, s, "/violations"); return })
	g.Go(func() (err error) {
		snap.ModerationLogs, err = fetchAll[models.ModerationLog](ctx, s, "/moderation-logs")
		return
	})
	g.Go(func() (err error) { snap.Appeals, err = fetchAll[models.Appeal](ctx, s, "/appeals"); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *RESTSource) Apply(ctx context.Context, action Action) error {
	body, err := json.Marshal(action)
	if err != nil {
		return errors.Wrap(err, "encode action")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/moderation/actions", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = do[json.RawMessage](s, req)
	return err
}

// fetchAll reads every page of a collection, starting at page 1 and stopping at meta.totalPages.
// A response without meta is treated as a single page.
func fetchAll[T any](ctx context.Context, s *RESTSource, path string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(s.pageLimit))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return nil, errors.Wrapf(err, "build request %s", path)
		}

		env, err := do[[]T](s, req)
		if err != nil {
			// a collection endpoint is never legitimately missing
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidAction) {
				err = errors.Wrap(ErrBackend, err.Error())
			}
			return nil, errors.WithMessage(err, path)
		}
		all = append(all, env.Data...)

		if env.Meta == nil || page >= env.Meta.TotalPages || len(env.Data) == 0 {
			break
		}
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

// do executes req and unwraps the envelope. Not-found and bad-request statuses map
// to ErrNotFound and ErrInvalidAction, every other failure to ErrBackend.
func do[T any](s *RESTSource, req *http.Request) (*models.Envelope[T], error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(ErrBackend, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(ErrBackend, err.Error())
	}

	var env models.Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrap(ErrNotFound, messageOr(env.Message, resp.Status))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, errors.Wrap(ErrInvalidAction, messageOr(env.Message, resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Wrap(ErrBackend, fmt.Sprintf("%s: %s", resp.Status, messageOr(env.Message, "no message")))
	case decodeErr != nil:
		return nil, errors.Wrap(ErrBackend, "decode envelope: "+decodeErr.Error())
	case !env.Success:
		return nil, errors.Wrap(ErrBackend, messageOr(env.Message, "success=false"))
	}
	return &env, nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
