// Package quotes loads the integrity quotes shown under the boards and
// rotates through them.
package quotes

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrEmptyQuotes = errors.New("quote file has no quotes")

// Quote is one line of text with an optional attribution.
type Quote struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

// UnmarshalYAML accepts either a bare string or a {text, author} mapping.
func (q *Quote) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		q.Text = node.Value
		q.Author = ""
		return nil
	}
	type plain Quote
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*q = Quote(p)
	return nil
}

func (q Quote) String() string {
	if q.Author == "" {
		return q.Text
	}
	return fmt.Sprintf("%q - %s", q.Text, q.Author)
}

type quoteFile struct {
	Quotes []Quote `yaml:"quotes"`
}

// Load reads the quotes list from a YAML file. Blank entries are skipped.
func Load(path string) ([]Quote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quotes: %w", err)
	}
	var doc quoteFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse quotes %s: %w", path, err)
	}
	out := make([]Quote, 0, len(doc.Quotes))
	for _, q := range doc.Quotes {
		q.Text = strings.TrimSpace(q.Text)
		q.Author = strings.TrimSpace(q.Author)
		if q.Text == "" {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyQuotes, path)
	}
	return out, nil
}

// Rotator picks a random quote on each Next call, never repeating the
// current one when there is a choice.
type Rotator struct {
	mu      sync.Mutex
	quotes  []Quote
	rng     *rand.Rand
	current int
}

// NewRotator returns a rotator starting at a random quote. A nil rng uses a
// randomly seeded source; tests pass a seeded one.
func NewRotator(quotes []Quote, rng *rand.Rand) *Rotator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	r := &Rotator{quotes: append([]Quote(nil), quotes...), rng: rng}
	if len(r.quotes) > 0 {
		r.current = r.rng.Intn(len(r.quotes))
	}
	return r
}

// Current returns the quote on screen, or fallback when there are none.
func (r *Rotator) Current(fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.quotes) == 0 {
		return fallback
	}
	return r.quotes[r.current].String()
}

// Next advances to a different quote and returns it.
func (r *Rotator) Next(fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch len(r.quotes) {
	case 0:
		return fallback
	case 1:
		return r.quotes[0].String()
	}
	step := 1 + r.rng.Intn(len(r.quotes)-1)
	r.current = (r.current + step) % len(r.quotes)
	return r.quotes[r.current].String()
}

// Index reports the position of the current quote so it can be restored.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Restore jumps to a saved position; out of range values are ignored.
func (r *Rotator) Restore(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.quotes) {
		r.current = index
	}
}

// Len returns the number of loaded quotes.
func (r *Rotator) Len() int {
	return len(r.quotes)
}
