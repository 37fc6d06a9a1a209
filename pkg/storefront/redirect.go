package storefront

import (
	"strings"

	"github.com/kuriosis/wallbuilder/pkg/normalize"
)

// MaterialRedirects maps material choices to the product page that sells
// them. Some materials (stretched canvas, framed prints) live on separate
// products, so selecting them on a poster page navigates instead of
// switching variants.
type MaterialRedirects struct {
	// Targets maps normalized material keys to product URL paths.
	Targets map[string]string
}

// NewMaterialRedirects builds the resolver, normalizing the material names
// used as keys.
func NewMaterialRedirects(targets map[string]string) *MaterialRedirects {
	normalized := make(map[string]string, len(targets))
	for material, target := range targets {
		normalized[normalize.Material(material)] = target
	}
	return &MaterialRedirects{Targets: normalized}
}

// Resolve decides whether choosing material on currentPath should navigate
// away. No redirect happens when the material has no configured target, when
// it is already the selected material, or when the target is the page the
// shopper is already on.
func (r *MaterialRedirects) Resolve(material, currentPath string, alreadySelected bool) (string, bool) {
	if r == nil {
		return "", false
	}
	target, ok := r.Targets[normalize.Material(material)]
	if !ok || strings.TrimSpace(target) == "" {
		return "", false
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	if alreadySelected || target == currentPath {
		return "", false
	}
	return target, true
}
