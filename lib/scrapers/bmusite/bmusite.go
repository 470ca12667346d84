package bmusite

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bmu-backend/lib/htmlutil"
	"bmu-backend/lib/restyutil"
	"bmu-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("scrapers/bmusite")

const DefaultBaseUrl = "https://bmusurat.ac.in"

const (
	welcomePage       = "/bmu_website/home/welcome"
	instituteDetailPage = "/bmu_website/institute/get_detail"
)

// Client scrapes the public university website. No authentication, the
// site just fronts through shared hosting that challenges plain Go
// clients, hence the browser-shaped transport.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 20
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeaders(map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/142.0.0.0 Safari/537.36",
		"Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,image/*,*/*;q=0.8",
		"Referer": opts.BaseUrl + "/",
	})
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)
	telemetry.InstrumentResty(client, "scrapers/bmusite/http")
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Client{BaseUrl: baseUrl, Http: client}, nil
}

func (c *Client) getDocument(ctx context.Context, path string, query url.Values) (*goquery.Document, error) {
	req := c.Http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch %s: status %d", path, res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func (c *Client) absolute(href string) string {
	return htmlutil.AbsoluteUrl(c.BaseUrl.String()+"/", href)
}

// text of the siblings following `start`, up to the next <hr>
func collectUntilHr(start *html.Node, sep string) *string {
	var parts []string
	for sibling := start.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type == html.ElementNode && sibling.Data == "hr" {
			break
		}
		text := strings.TrimSpace(htmlutil.GetText(sibling))
		if text != "" {
			parts = append(parts, text)
		}
	}
	joined := strings.TrimSpace(strings.Join(parts, sep))
	if joined == "" {
		return nil
	}
	return &joined
}

// a bold label like "Qualification:" followed by its value, terminated
// by an <hr>. the value hangs off the label's parent, not the label.
func labelledUntilHr(scope *goquery.Selection, label, sep string) *string {
	var out *string
	scope.Find("b").EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if !strings.Contains(b.Text(), label) {
			return true
		}
		parent := b.Nodes[0].Parent
		if parent == nil {
			return true
		}
		out = collectUntilHr(parent, sep)
		return false
	})
	return out
}

// the next element of the given tag in document order
func nextElement(start *html.Node, tag string) *html.Node {
	next := func(n *html.Node) *html.Node {
		if n.FirstChild != nil {
			return n.FirstChild
		}
		for n != nil {
			if n.NextSibling != nil {
				return n.NextSibling
			}
			n = n.Parent
		}
		return nil
	}
	for n := next(start); n != nil; n = next(n) {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
	}
	return nil
}
