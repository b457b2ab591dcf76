// Package akal is a client for the Karlsruhe Abfallkalender form at
// web3.karlsruhe.de. The site is a single PHP page: one request lists all
// selectable streets, one request per street renders its collection
// schedule as a table.
package akal

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/htmlutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/telemetry"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
)

var tracer = otel.Tracer("scrapers/akal")

const DefaultBaseUrl = "http://web3.karlsruhe.de/service/abfall/akal/akal.php"

type Client struct {
	BaseUrl string
	Http    *resty.Client
}

func NewClient(baseUrl string) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetTimeout(time.Second * 30)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	client.SetHeader("User-Agent", "abfallkalender-scraper (+https://github.com/CodeforKarlsruhe/abfallkalender-scraper)")

	telemetry.InstrumentResty(client, "scrapers/akal/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
}

// fetchDocument GETs the form with the given query parameters and parses
// the response into a goquery document. The site serves ISO-8859-1, so the
// body is decoded according to its Content-Type header first.
func (c *Client) fetchDocument(ctx context.Context, params map[string]string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.BaseUrl)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch %s: status %d", c.BaseUrl, res.StatusCode())
	}

	reader, err := charset.NewReader(
		bytes.NewReader(res.Body()),
		res.Header().Get("Content-Type"),
	)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Streets enumerates the raw street options of the form's street dropdown.
// An option may carry a house number annotation ("HAUPTSTR. 3-7"); streets
// with per-range schedules appear as multiple options.
func (c *Client) Streets(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Streets")
	defer span.End()

	// von/bis bound the first letter; '[' is the character after 'Z'.
	doc, err := c.fetchDocument(ctx, map[string]string{"von": "A", "bis": "["})
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch street list")
		return nil, err
	}

	var streets []string
	doc.Find(`select[name="strasse"] option`).Each(func(_ int, opt *goquery.Selection) {
		text := htmlutil.CleanText(opt.Text())
		if text != "" {
			streets = append(streets, text)
		}
	})

	if len(streets) == 0 {
		span.SetStatus(codes.Error, "street dropdown missing")
		return nil, fmt.Errorf("fetch street list: no select[name=strasse] options found")
	}

	span.SetAttributes(attribute.Int("streets", len(streets)))
	return streets, nil
}

// Collection is one labeled schedule cell of a street page, e.g.
// ("Bioabfall", "Dienstag, 14.05.2024").
type Collection struct {
	Label    string
	DateText string
}

// Collections fetches the schedule page of one raw street option and
// extracts the (label, date text) cell pairs of its schedule table.
func (c *Client) Collections(ctx context.Context, street string) ([]Collection, error) {
	ctx, span := tracer.Start(ctx, "Collections")
	span.SetAttributes(attribute.String("street", street))
	defer span.End()

	doc, err := c.fetchDocument(ctx, map[string]string{"strasse": street})
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch street page")
		return nil, fmt.Errorf("fetch street %q: %w", street, err)
	}

	var collections []Collection
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := htmlutil.CleanText(htmlutil.GetText(cells.Get(0)))
		if label == "" {
			return
		}
		collections = append(collections, Collection{
			Label:    label,
			DateText: htmlutil.CleanText(htmlutil.GetText(cells.Get(1))),
		})
	})

	span.SetAttributes(attribute.Int("collections", len(collections)))
	return collections, nil
}

// SplitStreet splits a raw street option into the street name and the
// house number annotation following it, e.g. "HAUPTSTR. 3-7" into
// ("HAUPTSTR.", "3-7"). Options without numbers return an empty range
// text, meaning the entry covers the whole street.
func SplitStreet(option string) (name, rangeText string) {
	idx := strings.IndexFunc(option, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if idx < 0 {
		return strings.TrimSpace(option), ""
	}
	return strings.TrimSpace(option[:idx]), strings.TrimSpace(option[idx:])
}
