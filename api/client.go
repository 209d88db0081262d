package api

import (
	"context"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/editor"
	"github.com/go-resty/resty/v2"
)

// Client submits scripts to a running server.
type Client struct {
	baseURL     string
	restyClient *resty.Client
}

func NewClient(baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("accept", "application/json")
	client.SetDisableWarn(true)

	return &Client{
		baseURL:     baseURL,
		restyClient: client,
	}
}

func checkResponse(res *resty.Response, err error) error {
	if err != nil {
		return merry.Wrap(err)
	}
	if res.IsError() {
		apiErr, _ := res.Error().(*ErrorResponse)
		if apiErr == nil || apiErr.Error == "" {
			return merry.Errorf("%s returned %s", res.Request.URL, res.Status())
		}
		return merry.New(apiErr.Error,
			merry.WithHTTPCode(res.StatusCode()),
			merry.WithUserMessage(apiErr.Diagnostics),
		)
	}
	return nil
}

// Submit runs script on the server and returns the clips it defined.
func (c *Client) Submit(ctx context.Context, script []byte) ([]editor.Summary, error) {
	out := &ScriptResponse{}
	res, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(script).
		SetResult(out).
		SetError(&ErrorResponse{}).
		Post("/scripts")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return out.Clips, nil
}

func (c *Client) Formats(ctx context.Context) (*FormatsResponse, error) {
	out := &FormatsResponse{}
	res, err := c.restyClient.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&ErrorResponse{}).
		Get("/formats")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) error {
	res, err := c.restyClient.R().SetContext(ctx).Get("/health")
	return checkResponse(res, err)
}
