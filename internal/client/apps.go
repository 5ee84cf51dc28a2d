package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// appContentType marks the binary app file format on upload.
const appContentType = "application/vnd.qlik.sense.app"

// AppsClient implements qrs.AppsRepository: generic CRUD through the
// embedded Repository plus the app-specific actions.
type AppsClient struct {
	*Repository[*qrs.App]
}

func newAppsClient(c *core) *AppsClient {
	return &AppsClient{
		Repository: newRepository(c, "/qrs/app", "app", func() *qrs.App { return &qrs.App{} }),
	}
}

// List fetches the condensed attribution of every matching app.
func (c *AppsClient) List(ctx context.Context, params *qrs.QueryParams) ([]qrs.AppCondensed, error) {
	return listCondensed[qrs.AppCondensed](ctx, c.core, c.basePath, c.kind, params)
}

// ListFull fetches the full attribution of every matching app.
func (c *AppsClient) ListFull(ctx context.Context, params *qrs.QueryParams) ([]*qrs.App, error) {
	return listFull(ctx, c.core, c.basePath, c.kind, params, c.factory)
}

// Reload triggers a data reload. A synchronous reload returns once the
// platform acknowledges it; when the platform hands back a task instead, the
// call polls until the task reaches a terminal state.
func (c *AppsClient) Reload(ctx context.Context, id string) error {
	if id == "" {
		return qrs.ErrMissingIdentifier
	}

	body, err := c.core.fetch(ctx, http.MethodPost, c.basePath+"/"+id+"/reload", nil, nil, c.kind, id)
	if err != nil {
		return err
	}

	taskID := taskIDFrom(body)
	if taskID == "" {
		c.core.log.Info("app reloaded", map[string]interface{}{"id": id})

		return nil
	}

	c.core.log.Info("app reload started", map[string]interface{}{"id": id, "task": taskID})

	return c.core.poller.Wait(ctx, "reload", taskID)
}

// Publish moves the app into a stream.
func (c *AppsClient) Publish(ctx context.Context, id, streamID string) (*qrs.App, error) {
	if id == "" || streamID == "" {
		return nil, qrs.ErrMissingIdentifier
	}

	query := url.Values{}
	query.Set("stream", streamID)

	return c.appAction(ctx, http.MethodPut, id+"/publish", query)
}

// Copy duplicates the app. An empty name keeps the source app's name.
func (c *AppsClient) Copy(ctx context.Context, id, name string) (*qrs.App, error) {
	if id == "" {
		return nil, qrs.ErrMissingIdentifier
	}

	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}

	return c.appAction(ctx, http.MethodPost, id+"/copy", query)
}

// Replace overwrites the target app with the contents of this one.
func (c *AppsClient) Replace(ctx context.Context, id, targetID string) (*qrs.App, error) {
	if id == "" || targetID == "" {
		return nil, qrs.ErrMissingIdentifier
	}

	query := url.Values{}
	query.Set("app", targetID)

	return c.appAction(ctx, http.MethodPut, id+"/replace", query)
}

// Export requests an export under a freshly minted token and returns the
// projection carrying the server-issued download path.
func (c *AppsClient) Export(ctx context.Context, id string) (*qrs.AppExport, error) {
	if id == "" {
		return nil, qrs.ErrMissingIdentifier
	}

	token := uuid.New().String()

	body, err := c.core.fetch(ctx, http.MethodPost, c.basePath+"/"+id+"/export/"+token, nil, nil, c.kind, id)
	if err != nil {
		return nil, err
	}

	export := &qrs.AppExport{}
	if err := json.Unmarshal(body, export); err != nil {
		return nil, fmt.Errorf("decoding app export: %w", err)
	}

	if export.ExportToken == "" {
		export.ExportToken = token
	}

	if export.AppID == "" {
		export.AppID = id
	}

	return export, nil
}

// Upload creates an app from a binary app file and returns the created
// resource. The content is held in memory for the duration of the call.
func (c *AppsClient) Upload(ctx context.Context, name string, content io.Reader) (*qrs.App, error) {
	if name == "" {
		return nil, &qrs.ValidationError{Kind: c.kind, Field: "name", Detail: "name is required"}
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("reading app content: %w", err)
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("keepdata", "false")

	resp, err := c.core.session.Do(ctx, &qrs.Request{
		Method:      http.MethodPost,
		Path:        c.basePath + "/upload",
		Query:       query,
		Body:        data,
		ContentType: appContentType,
	})
	if err != nil {
		return nil, err
	}

	if err := errorFromStatus(http.MethodPost+" "+c.basePath+"/upload", c.kind, "", resp); err != nil {
		return nil, err
	}

	app := &qrs.App{}
	if err := qrs.DecodeEntity(resp.Body, app); err != nil {
		return nil, fmt.Errorf("decoding uploaded app: %w", err)
	}

	c.core.log.Info("app uploaded", map[string]interface{}{"id": app.ID, "name": app.Name})

	return app, nil
}

// Download fetches the exported payload from a path issued by Export. The
// platform serves it outside the resource protocol base path, with the export
// token baked into the path's query.
func (c *AppsClient) Download(ctx context.Context, downloadPath string) (io.ReadCloser, error) {
	if downloadPath == "" {
		return nil, qrs.ErrMissingIdentifier
	}

	parsed, err := url.Parse(downloadPath)
	if err != nil {
		return nil, fmt.Errorf("parsing download path %q: %w", downloadPath, err)
	}

	body, err := c.core.fetch(ctx, http.MethodGet, parsed.Path, parsed.Query(), nil, c.kind, "")
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(body)), nil
}

func (c *AppsClient) appAction(ctx context.Context, method, suffix string, query url.Values) (*qrs.App, error) {
	body, err := c.core.fetch(ctx, method, c.basePath+"/"+suffix, query, nil, c.kind, "")
	if err != nil {
		return nil, err
	}

	app := &qrs.App{}
	if err := qrs.DecodeEntity(body, app); err != nil {
		return nil, fmt.Errorf("decoding app: %w", err)
	}

	return app, nil
}

// taskIDFrom extracts a task identifier from an action acknowledgement. The
// platform answers either with nothing, with {"value": "<id>"}, or with the
// task object itself.
func taskIDFrom(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	if id := gjson.GetBytes(body, "value"); id.Exists() {
		return id.String()
	}

	return gjson.GetBytes(body, "id").String()
}
