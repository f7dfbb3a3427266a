// Package rarity tallies trait frequencies across a collection and turns them
// into per-trait and per-token rarity scores and rankings.
package rarity

import "github.com/dtnitsch/nft-rarity/models"

// TraitKey identifies one (name, value) pair.
type TraitKey struct {
	Name  string
	Value string
}

func (k TraitKey) String() string {
	return k.Name + " - " + k.Value
}

// Aggregator builds a FrequencyTable one attribute at a time.
// It is append-only and not safe for concurrent use.
type Aggregator struct {
	names     []string
	values    map[string][]string
	counts    map[TraitKey]int
	tokens    int
	finalized bool
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		values: make(map[string][]string),
		counts: make(map[TraitKey]int),
	}
}

// Record tallies one attribute: the name and value are registered on first
// sight and the pair's count is incremented.
func (a *Aggregator) Record(attr models.Attribute) {
	if a.finalized {
		panic("rarity: Record called after Finalize")
	}

	if _, ok := a.values[attr.Name]; !ok {
		a.names = append(a.names, attr.Name)
		a.values[attr.Name] = nil
	}

	key := TraitKey{Name: attr.Name, Value: attr.Value}
	if a.counts[key] == 0 {
		a.values[attr.Name] = append(a.values[attr.Name], attr.Value)
	}
	a.counts[key]++
}

// RecordToken tallies every attribute a token carries.
func (a *Aggregator) RecordToken(tok *models.Token) {
	for _, attr := range tok.Attributes {
		a.Record(attr)
	}
	a.tokens++
}

// Tokens returns how many tokens have been recorded with RecordToken.
func (a *Aggregator) Tokens() int {
	return a.tokens
}

// Finalize closes the aggregation and returns the table. The aggregator
// must not be used afterwards.
func (a *Aggregator) Finalize() *FrequencyTable {
	a.finalized = true
	return &FrequencyTable{
		names:  a.names,
		values: a.values,
		counts: a.counts,
		tokens: a.tokens,
	}
}

// FrequencyTable is the read-only result of aggregation. Names and values
// are kept in first-seen order.
type FrequencyTable struct {
	names  []string
	values map[string][]string
	counts map[TraitKey]int
	tokens int
}

// Names returns the distinct attribute names in first-seen order.
func (ft *FrequencyTable) Names() []string {
	return append([]string(nil), ft.names...)
}

// Values returns the distinct values observed for name in first-seen order.
func (ft *FrequencyTable) Values(name string) []string {
	return append([]string(nil), ft.values[name]...)
}

// Count returns how many tokens carry the pair; zero when it was never seen.
func (ft *FrequencyTable) Count(name, value string) int {
	return ft.counts[TraitKey{Name: name, Value: value}]
}

// Len returns the number of distinct (name, value) pairs.
func (ft *FrequencyTable) Len() int {
	return len(ft.counts)
}

// Tokens returns how many tokens were aggregated.
func (ft *FrequencyTable) Tokens() int {
	return ft.tokens
}

// Each calls fn for every pair in first-seen order.
func (ft *FrequencyTable) Each(fn func(key TraitKey, count int)) {
	for _, name := range ft.names {
		for _, value := range ft.values[name] {
			key := TraitKey{Name: name, Value: value}
			fn(key, ft.counts[key])
		}
	}
}
