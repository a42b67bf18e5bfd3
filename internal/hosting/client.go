// Package hosting manages versions, channels and releases on the hosting
// backend. Every value it returns is a fresh snapshot of remote state; the
// client never caches or mutates them.
package hosting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/opmodel/hostctl/internal/apiclient"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/operation"
	"github.com/opmodel/hostctl/internal/serving"
)

// listPageSize is the page size used for every list call.
const listPageSize = 10

// CloneTimeout bounds how long CloneVersion waits for the clone operation.
const CloneTimeout = 10 * time.Minute

// Requester sends REST requests to the hosting backend.
type Requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
	Origin() string
	APIVersion() string
}

// OperationPoller waits for a long-running operation to finish.
type OperationPoller interface {
	Poll(ctx context.Context, opts operation.Options, out any) error
}

// ChannelsNotFoundError is returned when a site's channels cannot be listed
// because the site does not exist.
type ChannelsNotFoundError struct {
	Site string
	Err  error
}

func (e *ChannelsNotFoundError) Error() string {
	return fmt.Sprintf("could not find channels for site %q", e.Site)
}

func (e *ChannelsNotFoundError) Unwrap() []error {
	return []error{e.Err, oerrors.ErrNotFound}
}

// Client talks to the hosting backend.
type Client struct {
	req    Requester
	poller OperationPoller
}

// NewClient creates a Client.
func NewClient(req Requester, poller OperationPoller) *Client {
	return &Client{req: req, poller: poller}
}

func projectOrDefault(project string) string {
	if project == "" {
		return "-"
	}
	return project
}

func channelsPath(project, site string) string {
	return fmt.Sprintf("/projects/%s/sites/%s/channels", projectOrDefault(project), site)
}

func channelPath(project, site, id string) string {
	return channelsPath(project, site) + "/" + id
}

// GetChannel returns the channel, or nil when it does not exist.
func (c *Client) GetChannel(ctx context.Context, project, site, id string) (*Channel, error) {
	var ch Channel
	err := c.req.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: channelPath(project, site, id)}, &ch)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ch, nil
}

type listChannelsResponse struct {
	Channels      []Channel `json:"channels"`
	NextPageToken string    `json:"nextPageToken"`
}

// ListChannels returns every channel of site in backend order, fetching
// pages one after another.
func (c *Client) ListChannels(ctx context.Context, project, site string) ([]Channel, error) {
	var channels []Channel
	pageToken := ""
	for {
		q := url.Values{"pageSize": {fmt.Sprint(listPageSize)}}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var page listChannelsResponse
		err := c.req.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: channelsPath(project, site), Query: q}, &page)
		if err != nil {
			if apiclient.IsNotFound(err) {
				return nil, &ChannelsNotFoundError{Site: site, Err: err}
			}
			return nil, err
		}

		channels = append(channels, page.Channels...)
		if page.NextPageToken == "" {
			return channels, nil
		}
		pageToken = page.NextPageToken
	}
}

type channelTTLBody struct {
	TTL string `json:"ttl"`
}

// CreateChannel creates channel id on site. A non-positive ttl uses
// DefaultChannelTTL.
func (c *Client) CreateChannel(ctx context.Context, project, site, id string, ttl time.Duration) (*Channel, error) {
	if ttl <= 0 {
		ttl = DefaultChannelTTL
	}
	var ch Channel
	err := c.req.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   channelsPath(project, site),
		Query:  url.Values{"channelId": {id}},
		Body:   channelTTLBody{TTL: ttlString(ttl)},
	}, &ch)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// UpdateChannelTTL replaces only the TTL of a channel. A non-positive ttl
// uses one week.
func (c *Client) UpdateChannelTTL(ctx context.Context, project, site, id string, ttl time.Duration) (*Channel, error) {
	if ttl <= 0 {
		ttl = DefaultChannelTTL
	}
	var ch Channel
	err := c.req.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   channelPath(project, site, id),
		Query:  url.Values{"updateMask": {"ttl"}},
		Body:   channelTTLBody{TTL: ttlString(ttl)},
	}, &ch)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// DeleteChannel deletes a channel.
func (c *Client) DeleteChannel(ctx context.Context, project, site, id string) error {
	return c.req.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: channelPath(project, site, id)}, nil)
}

func versionsPath(site string) string {
	return fmt.Sprintf("/projects/-/sites/%s/versions", site)
}

// versionPath resolves a version name, with or without a projects/ prefix,
// to its request path.
func versionPath(versionName string) (string, error) {
	site, id, err := ParseVersionName(versionName)
	if err != nil {
		return "", err
	}
	return versionsPath(site) + "/" + id, nil
}

type createVersionBody struct {
	Config *serving.ServingConfig `json:"config,omitempty"`
	Labels map[string]string      `json:"labels,omitempty"`
}

// CreateVersion creates a version in CREATED state carrying config.
func (c *Client) CreateVersion(ctx context.Context, site string, config serving.ServingConfig, labels map[string]string) (*Version, error) {
	body := createVersionBody{Labels: labels}
	if !config.IsEmpty() {
		body.Config = &config
	}
	var v Version
	if err := c.req.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: versionsPath(site), Body: body}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVersion fetches a version by name.
func (c *Client) GetVersion(ctx context.Context, versionName string) (*Version, error) {
	path, err := versionPath(versionName)
	if err != nil {
		return nil, err
	}
	var v Version
	if err := c.req.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FinalizeVersion asks the backend to move a version to FINALIZED. The
// backend rejects the request when the version is not CREATED.
func (c *Client) FinalizeVersion(ctx context.Context, versionName string) (*Version, error) {
	path, err := versionPath(versionName)
	if err != nil {
		return nil, err
	}
	var v Version
	err = c.req.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   path,
		Query:  url.Values{"updateMask": {"status"}},
		Body:   map[string]VersionStatus{"status": VersionStatusFinalized},
	}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVersion deletes a version.
func (c *Client) DeleteVersion(ctx context.Context, versionName string) error {
	path, err := versionPath(versionName)
	if err != nil {
		return err
	}
	return c.req.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: path}, nil)
}

type cloneVersionBody struct {
	SourceVersion string `json:"sourceVersion"`
	Finalize      bool   `json:"finalize"`
}

// CloneVersion copies sourceVersionName into a new version of site and
// waits up to CloneTimeout for the clone to finish.
func (c *Client) CloneVersion(ctx context.Context, site, sourceVersionName string, finalize bool) (*Version, error) {
	var op Operation
	err := c.req.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   versionsPath(site) + ":clone",
		Body:   cloneVersionBody{SourceVersion: sourceVersionName, Finalize: finalize},
	}, &op)
	if err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, errors.New("clone request returned no operation name")
	}

	var v Version
	err = c.poller.Poll(ctx, operation.Options{
		Name:       op.Name,
		Origin:     c.req.Origin(),
		APIVersion: c.req.APIVersion(),
		Timeout:    CloneTimeout,
	}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func releasesPath(site, channelID string) string {
	return fmt.Sprintf("/projects/-/sites/%s/channels/%s/releases", site, channelID)
}

// CreateRelease points channelID at versionName.
func (c *Client) CreateRelease(ctx context.Context, site, channelID, versionName string) (*Release, error) {
	var r Release
	err := c.req.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   releasesPath(site, channelID),
		Query:  url.Values{"versionName": {versionName}},
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type listReleasesResponse struct {
	Releases      []Release `json:"releases"`
	NextPageToken string    `json:"nextPageToken"`
}

// ListReleases returns the release history of a channel, newest first as
// the backend orders it.
func (c *Client) ListReleases(ctx context.Context, site, channelID string) ([]Release, error) {
	var releases []Release
	pageToken := ""
	for {
		q := url.Values{"pageSize": {fmt.Sprint(listPageSize)}}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var page listReleasesResponse
		err := c.req.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: releasesPath(site, channelID), Query: q}, &page)
		if err != nil {
			return nil, err
		}

		releases = append(releases, page.Releases...)
		if page.NextPageToken == "" {
			return releases, nil
		}
		pageToken = page.NextPageToken
	}
}
