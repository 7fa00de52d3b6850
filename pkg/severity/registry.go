package severity

import (
	"fmt"
	"log/slog"
)

// DefaultClassifier is the registry entry used when no strategy is named.
const DefaultClassifier = "keyword"

// Registry holds named classification strategies so hosts can swap
// platform-specific taxonomies without touching aggregation code.
type Registry struct {
	logger      *slog.Logger
	classifiers map[string]Classifier
}

// NewRegistry creates a registry pre-populated with the keyword classifier.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		logger:      logger,
		classifiers: make(map[string]Classifier),
	}
	r.Register(DefaultClassifier, NewKeyword())

	return r
}

// Register adds or replaces a named classifier.
func (r *Registry) Register(name string, classifier Classifier) {
	if _, exists := r.classifiers[name]; exists {
		r.logger.Warn("Replacing registered severity classifier", "name", name)
	}

	r.classifiers[name] = classifier
}

// Get returns the classifier registered under name.
func (r *Registry) Get(name string) (Classifier, error) {
	classifier, ok := r.classifiers[name]
	if !ok {
		return nil, fmt.Errorf("severity classifier '%s' not registered", name)
	}

	return classifier, nil
}
