package storefront

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/httputil"
)

// Collection cards on the gallery landing page start out with an SVG
// placeholder; the primary image lives on the combo page the card links to
// and is fetched lazily. Pages mark their main image with one of several
// markers, tried in order.

// HasValidImage reports whether src already shows a real image rather than
// a placeholder asset or an inline SVG stand-in. Cards with a valid image
// are left alone.
func HasValidImage(src string) bool {
	if src == "" {
		return false
	}
	if strings.HasPrefix(src, "data:image/svg") {
		return false
	}
	return !strings.Contains(src, "placeholder")
}

// PrimaryImage fetches the gallery combo page at path and extracts its main
// image URL. Returns IMAGE_NOT_FOUND when the page carries no recognizable
// image marker. Results are cached when the client has a cache.
func (c *Client) PrimaryImage(ctx context.Context, path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if c.cache != nil {
		var cached string
		if ok, _ := c.cache.Get("page_image:"+path, &cached); ok {
			return cached, nil
		}
	}

	body, err := c.getHTML(ctx, path)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse page %s", path)
	}

	imageURL := extractPrimaryImage(doc)
	if imageURL == "" {
		return "", errors.New(errors.ErrCodeImageNotFound, "no primary image on %s", path)
	}
	imageURL = normalizeImageURL(imageURL)

	if c.cache != nil {
		_ = c.cache.Set("page_image:"+path, imageURL)
	}
	return imageURL, nil
}

// ResolveCardImage decides whether the card linking to path needs its image
// replaced. A card that already shows a valid image is never touched, and a
// fetched image identical to the current one reports no change.
func (c *Client) ResolveCardImage(ctx context.Context, path, currentImage string) (string, bool, error) {
	if HasValidImage(currentImage) {
		return "", false, nil
	}
	imageURL, err := c.PrimaryImage(ctx, path)
	if err != nil {
		return "", false, err
	}
	if stripImageURL(imageURL) == stripImageURL(currentImage) {
		return "", false, nil
	}
	return imageURL, true, nil
}

// extractPrimaryImage walks the page's image markers in priority order:
// explicit data attributes first, then the known main-image containers.
func extractPrimaryImage(doc *goquery.Document) string {
	if v, ok := doc.Find("[data-combo-main-image]").First().Attr("data-combo-main-image"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find("[data-main-image-url]").First().Attr("data-main-image-url"); ok && v != "" {
		return v
	}
	for _, selector := range []string{
		"#combo-main-image-container img",
		"#combo-main-image",
		".combo-main-image-img",
		".combo-main-image-wrapper img",
	} {
		if v, ok := doc.Find(selector).First().Attr("src"); ok && v != "" {
			return v
		}
	}
	return ""
}

// normalizeImageURL upgrades protocol-relative URLs, drops size query
// parameters and requests a large rendition unless the URL already names a
// sized variant.
func normalizeImageURL(imageURL string) string {
	if strings.HasPrefix(imageURL, "//") {
		imageURL = "https:" + imageURL
	}
	if idx := strings.IndexByte(imageURL, '?'); idx >= 0 {
		imageURL = imageURL[:idx]
	}
	for _, sized := range []string{"_1200x", "_800x", "_600x"} {
		if strings.Contains(imageURL, sized) {
			return imageURL
		}
	}
	return imageURL + "?width=1200"
}

// stripImageURL reduces a URL to its path for same-image comparison.
func stripImageURL(imageURL string) string {
	if idx := strings.IndexByte(imageURL, '?'); idx >= 0 {
		imageURL = imageURL[:idx]
	}
	if idx := strings.IndexByte(imageURL, '#'); idx >= 0 {
		imageURL = imageURL[:idx]
	}
	return imageURL
}

// getHTML fetches path as a rendered page rather than an API payload.
func (c *Client) getHTML(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", path)
		}
		req.Header.Set("Accept", "text/html")

		resp, err := c.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", path)}
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode, path); err != nil {
			return err
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", path)}
		}
		return nil
	})
	return body, err
}
