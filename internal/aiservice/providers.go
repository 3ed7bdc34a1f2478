package aiservice

import "autodevstack/internal/hub"

var allowedProviders = map[string]struct{}{
	"auto": {}, "black-forest-labs": {}, "cerebras": {}, "cohere": {}, "fal-ai": {},
	"featherless-ai": {}, "fireworks-ai": {}, "groq": {}, "hf-inference": {},
	"hyperbolic": {}, "nebius": {}, "novita": {}, "nscale": {}, "openai": {},
	"ovhcloud": {}, "replicate": {}, "sambanova": {}, "together": {},
}

// ValidProvider returns p when it is a known inference provider and "auto"
// otherwise.
func ValidProvider(p string) string {
	if _, ok := allowedProviders[p]; ok {
		return p
	}
	return hub.AutoProvider
}
