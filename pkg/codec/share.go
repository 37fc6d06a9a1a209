package codec

import (
	"net/url"

	"github.com/kuriosis/wallbuilder/pkg/composition"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// ShareParam is the query parameter carrying a shared composition.
// Percent-encoding (not base64) keeps unicode titles intact in the URL.
const ShareParam = "gallery"

// EncodeShareURL embeds c into pageURL as a single query parameter and
// returns the shareable link. Existing query parameters on pageURL survive.
func EncodeShareURL(pageURL string, c *composition.Composition) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse share base URL %q", pageURL)
	}

	data, err := Marshal(c)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal composition for sharing")
	}

	q := u.Query()
	q.Set(ShareParam, string(data))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DecodeShareURL extracts and decodes the composition embedded in a shared
// link. A URL without the parameter returns a NOT_FOUND error so hydration
// can tell "no shared gallery" apart from "broken shared gallery".
func DecodeShareURL(rawURL string) (*composition.Composition, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse share URL")
	}

	encoded := u.Query().Get(ShareParam)
	if encoded == "" {
		return nil, errors.New(errors.ErrCodeNotFound, "no %q parameter in URL", ShareParam)
	}
	return Unmarshal([]byte(encoded))
}
