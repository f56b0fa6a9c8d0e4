package query

import (
	"github.com/shanks-ir/argos/internal/errors"
)

// Composer turns tokenized topic titles into multi-field query trees.
type Composer struct {
	expander SynonymExpander
}

// NewComposer creates a composer backed by the given synonym expander.
// The expander may be nil only for profiles with a zero synonym boost.
func NewComposer(expander SynonymExpander) *Composer {
	return &Composer{expander: expander}
}

// Compose builds the full query for one topic under a strategy profile.
// The title terms are rendered twice, once against the title field with
// the profile's title boost and once against the body field with boost 1,
// and the two renderings are OR-ed: a document matching either one should
// be retrievable.
func (c *Composer) Compose(titleTerms []string, profile StrategyProfile) (Node, error) {
	if len(titleTerms) == 0 {
		return nil, errors.CompositionError("topic title is empty after tokenization", nil)
	}
	if profile.SynonymBoost != 0 && c.expander == nil {
		return nil, errors.ConfigError("profile requires synonym expansion but no expander is configured", nil)
	}

	titleQuery, err := BuildFieldQuery(titleTerms, FieldTitle, c.expander, FieldParams{
		SynonymBoost:      profile.SynonymBoost,
		FieldBoost:        profile.TitleBoost,
		ProximityBoost:    profile.ProximityBoost,
		ProximityDistance: profile.ProximityDistance,
		Pairing:           profile.Pairing,
	})
	if err != nil {
		return nil, err
	}

	bodyQuery, err := BuildFieldQuery(titleTerms, FieldBody, c.expander, FieldParams{
		SynonymBoost:      profile.SynonymBoost,
		FieldBoost:        1.0,
		ProximityBoost:    profile.ProximityBoost,
		ProximityDistance: profile.ProximityDistance,
		Pairing:           profile.Pairing,
	})
	if err != nil {
		return nil, err
	}

	return &Disjunction{Children: []Node{titleQuery, bodyQuery}}, nil
}
