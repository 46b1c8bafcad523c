package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/structdiff/structdiff/version"
)

// repoSource deals with downloading individual files from a specific git
// repository over HTTPS.
type repoSource interface {
	// download fetches an io.ReadCloser for the file at path within the
	// repository at ref and also returns the size of the response (if known).
	download(ctx context.Context, ref, path string, get getResponse) (io.ReadCloser, int64, error)
}

// getResponse runs an HTTP request and hands back the body on a 2xx status.
type getResponse func(*http.Request) (io.ReadCloser, int64, error)

func fetchRepo(ctx context.Context, src repoSource, ref, path string) ([]byte, error) {
	body, _, err := src.download(ctx, ref, path, getHTTPResponse)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

func fetchURL(ctx context.Context, rawURL string, log zerolog.Logger) ([]byte, error) {
	log.Debug().Str("url", rawURL).Msg("downloading document")

	req, err := buildHTTPRequest(ctx, rawURL, "")
	if err != nil {
		return nil, err
	}
	body, _, err := getHTTPResponse(req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

// gitlabSource can download a repository file through the GitLab files API.
// Uses the GITLAB_TOKEN environment variable for authentication if it's set.
type gitlabSource struct {
	host    string
	owner   string
	project string

	token string
	log   zerolog.Logger
}

func newGitlabSource(u *url.URL, log zerolog.Logger) (*gitlabSource, error) {
	host := u.Host
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	if host == "" {
		return nil, fmt.Errorf("gitlab:// url must have a host part, was: %s", u)
	}

	if len(parts) != 1 && len(parts) != 2 {
		return nil, fmt.Errorf(
			"gitlab:// url must have the format <host>/<owner>[/<repository>], was: %s",
			u)
	}

	owner := parts[0]
	if owner == "" {
		return nil, fmt.Errorf(
			"gitlab:// url must have the format <host>/<owner>[/<repository>], was: %s",
			u)
	}

	// Projects living at owner/owner may leave the repository part off.
	project := owner
	if len(parts) == 2 {
		project = parts[1]
	}

	return &gitlabSource{
		host:    host,
		owner:   owner,
		project: project,

		token: os.Getenv("GITLAB_TOKEN"),
		log:   log,
	}, nil
}

func (s *gitlabSource) newHTTPRequest(ctx context.Context, url, accept string) (*http.Request, error) {
	var authorization string
	if s.token != "" {
		authorization = fmt.Sprintf("Bearer %s", s.token)
	}

	req, err := buildHTTPRequest(ctx, url, authorization)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	return req, nil
}

func (s *gitlabSource) download(
	ctx context.Context, ref, path string, get getResponse,
) (io.ReadCloser, int64, error) {
	file := url.QueryEscape(path)
	project := url.QueryEscape(fmt.Sprintf("%s/%s", s.owner, s.project))

	// GitLab Files API: https://docs.gitlab.com/ee/api/repository_files.html
	fileURL := fmt.Sprintf(
		"https://%s/api/v4/projects/%s/repository/files/%s/raw?ref=%s",
		s.host, project, file, ref)
	s.log.Debug().Str("url", fileURL).Msg("downloading document from GitLab")

	req, err := s.newHTTPRequest(ctx, fileURL, "application/octet-stream")
	if err != nil {
		return nil, -1, err
	}
	return get(req)
}

// githubSource can download a repository file through the GitHub contents API.
// Uses the GITHUB_TOKEN environment variable for authentication if it's set.
type githubSource struct {
	host       string
	owner      string
	repository string

	token string
	log   zerolog.Logger
}

func newGithubSource(u *url.URL, log zerolog.Logger) (*githubSource, error) {
	host := u.Host
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	if host == "" {
		return nil, fmt.Errorf("github:// url must have a host part, was: %s", u)
	}

	if len(parts) != 1 && len(parts) != 2 {
		return nil, fmt.Errorf(
			"github:// url must have the format <host>/<owner>[/<repository>], was: %s",
			u)
	}

	owner := parts[0]
	if owner == "" {
		return nil, fmt.Errorf(
			"github:// url must have the format <host>/<owner>[/<repository>], was: %s",
			u)
	}

	// Projects living at owner/owner may leave the repository part off.
	repository := owner
	if len(parts) == 2 {
		repository = parts[1]
	}

	return &githubSource{
		host:       host,
		owner:      owner,
		repository: repository,

		token: os.Getenv("GITHUB_TOKEN"),
		log:   log,
	}, nil
}

func (s *githubSource) newHTTPRequest(ctx context.Context, url, accept string) (*http.Request, error) {
	var authorization string
	if s.token != "" {
		authorization = fmt.Sprintf("token %s", s.token)
	}

	req, err := buildHTTPRequest(ctx, url, authorization)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	return req, nil
}

func (s *githubSource) getResponse(get getResponse, req *http.Request) (io.ReadCloser, int64, error) {
	resp, length, err := get(req)
	if err == nil {
		return resp, length, nil
	}

	// Wrap 403 rate limit errors with a more helpful message.
	var downErr *downloadError
	if !errors.As(err, &downErr) || downErr.code != 403 {
		return nil, -1, err
	}

	// This is a rate limiting error only if x-ratelimit-remaining is 0.
	// https://docs.github.com/en/rest/overview/resources-in-the-rest-api?apiVersion=2022-11-28#exceeding-the-rate-limit
	if downErr.header.Get("x-ratelimit-remaining") != "0" {
		return nil, -1, err
	}

	tryAgain := "."
	if reset, err := strconv.ParseInt(downErr.header.Get("x-ratelimit-reset"), 10, 64); err == nil {
		delay := time.Until(time.Unix(reset, 0).UTC())
		tryAgain = fmt.Sprintf(", try again in %s.", delay)
	}

	addAuth := ""
	if s.token == "" {
		addAuth = " You can set GITHUB_TOKEN to make an authenticated request with a higher rate limit."
	}

	s.log.Error().Msgf("GitHub rate limit exceeded for %s%s%s", req.URL, tryAgain, addAuth)
	return nil, -1, fmt.Errorf("rate limit exceeded: %w", err)
}

func (s *githubSource) download(
	ctx context.Context, ref, path string, get getResponse,
) (io.ReadCloser, int64, error) {
	fileURL := fmt.Sprintf(
		"https://%s/repos/%s/%s/contents/%s?ref=%s",
		s.host, s.owner, s.repository, path, ref)
	s.log.Debug().Str("url", fileURL).Msg("downloading document from GitHub")

	req, err := s.newHTTPRequest(ctx, fileURL, "application/vnd.github.v4.raw")
	if err != nil {
		return nil, -1, err
	}
	return s.getResponse(get, req)
}

func buildHTTPRequest(ctx context.Context, endpoint string, authorization string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	userAgent := fmt.Sprintf("structdiff/1 (%s; %s)", version.Version, runtime.GOOS)
	req.Header.Set("User-Agent", userAgent)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	return req, nil
}

func getHTTPResponse(req *http.Request) (io.ReadCloser, int64, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, -1, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, -1, newDownloadError(resp.StatusCode, req.URL, resp.Header)
	}

	return resp.Body, resp.ContentLength, nil
}

// downloadError is an error that happened during the HTTP download of a
// document.
type downloadError struct {
	msg    string
	code   int
	header http.Header
}

func (e *downloadError) Error() string {
	return e.msg
}

// newGithubPrivateRepoError creates a downloadError with a message that
// indicates GITHUB_TOKEN should be set.
func newGithubPrivateRepoError(statusCode int, url *url.URL) error {
	return &downloadError{
		code: statusCode,
		msg: fmt.Sprintf("%d HTTP error fetching document from %s. "+
			"If this is a private GitHub repository, try "+
			"providing a token via the GITHUB_TOKEN environment variable. "+
			"See: https://github.com/settings/tokens",
			statusCode, url),
	}
}

func newDownloadError(statusCode int, url *url.URL, header http.Header) error {
	if url.Host == "api.github.com" && statusCode == 404 {
		return newGithubPrivateRepoError(statusCode, url)
	}
	return &downloadError{
		code:   statusCode,
		msg:    fmt.Sprintf("%d HTTP error fetching document from %s", statusCode, url),
		header: header,
	}
}
