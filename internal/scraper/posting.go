package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"jamco/internal/domain"
	jobuc "jamco/internal/usecase/job"

	"github.com/gocolly/colly/v2"
)

var (
	ErrUnsupportedURL = fmt.Errorf("%w: unsupported posting url", domain.ErrValidation)
	ErrBlockedHost    = fmt.Errorf("%w: posting host is not public", domain.ErrValidation)
)

const maxDescriptionLen = 4000

// PostingScraper reads the title, company and summary of a single job
// posting page, staying on the posting's host.
type PostingScraper struct {
	timeout   time.Duration
	userAgent string
	// allowPrivate disables the public address check. Tests only.
	allowPrivate bool
}

var _ jobuc.Importer = (*PostingScraper)(nil)

func NewPostingScraper(timeout time.Duration) *PostingScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PostingScraper{timeout: timeout, userAgent: "JamcoImporter/0.1"}
}

func (s *PostingScraper) Fetch(ctx context.Context, rawURL string) (jobuc.Posting, error) {
	allowed := hostFromURL(rawURL)
	if allowed == "" {
		return jobuc.Posting{}, ErrUnsupportedURL
	}

	if !s.allowPrivate {
		if err := checkHost(ctx, allowed); err != nil {
			return jobuc.Posting{}, err
		}
	}

	c := colly.NewCollector(colly.AllowedDomains(allowed), colly.UserAgent(s.userAgent))
	c.WithTransport(s.transport())
	c.SetRequestTimeout(s.timeout)

	var (
		ogTitle, pageTitle, siteName string
		ogDescription, description   string
		reqErr                       error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		ogTitle = pickNonEmpty(ogTitle, e.Attr("content"))
	})
	c.OnHTML(`meta[property="og:site_name"]`, func(e *colly.HTMLElement) {
		siteName = pickNonEmpty(siteName, e.Attr("content"))
	})
	c.OnHTML(`meta[property="og:description"]`, func(e *colly.HTMLElement) {
		ogDescription = pickNonEmpty(ogDescription, e.Attr("content"))
	})
	c.OnHTML(`meta[name="description"]`, func(e *colly.HTMLElement) {
		description = pickNonEmpty(description, e.Attr("content"))
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		pageTitle = pickNonEmpty(pageTitle, e.Text)
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if err := ctx.Err(); err != nil {
		return jobuc.Posting{}, err
	}
	if err := c.Visit(rawURL); err != nil {
		return jobuc.Posting{}, fetchError(err)
	}
	c.Wait()
	if reqErr != nil {
		return jobuc.Posting{}, fetchError(reqErr)
	}

	p := jobuc.Posting{
		Title:       pickNonEmpty(ogTitle, pageTitle),
		Company:     siteName,
		Description: truncate(pickNonEmpty(ogDescription, description), maxDescriptionLen),
	}
	if p.Title == "" {
		return jobuc.Posting{}, fmt.Errorf("%w: posting has no title", domain.ErrValidation)
	}
	return p, nil
}

// transport re-checks every dialed address, so redirects and DNS answers
// that change between lookups cannot reach internal hosts.
func (s *PostingScraper) transport() *http.Transport {
	dialer := &net.Dialer{Timeout: s.timeout}
	if !s.allowPrivate {
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip == nil || !publicIP(ip) {
				return ErrBlockedHost
			}
			return nil
		}
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   s.timeout,
		ResponseHeaderTimeout: s.timeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       30 * time.Second,
	}
}

func checkHost(ctx context.Context, host string) error {
	lower := strings.ToLower(strings.TrimSuffix(host, "."))
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return ErrBlockedHost
	}
	if ip := net.ParseIP(host); ip != nil {
		if !publicIP(ip) {
			return ErrBlockedHost
		}
		return nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", domain.ErrValidation, host, err)
	}
	for _, a := range addrs {
		if !publicIP(a.IP) {
			return ErrBlockedHost
		}
	}
	return nil
}

var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func publicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	case sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

func fetchError(err error) error {
	if errors.Is(err, ErrBlockedHost) {
		return ErrBlockedHost
	}
	return fmt.Errorf("%w: fetch posting: %v", domain.ErrValidation, err)
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.Hostname()
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
