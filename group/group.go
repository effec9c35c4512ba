// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package group names configuration groups and partitions the CSFs they
// produce into (parity, total-2J) symmetry blocks.
package group

import (
	"github.com/cpmech/goatom/shell"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// BasisState identifies one coupled many-electron basis vector: which
// group, which configuration within the group, and which CSF within the
// configuration.
type BasisState struct {
	GroupIndex  int
	ConfigIndex int
	CSFIndex    int
}

// Group is a named container of configurations. Groups are referenced by
// stable integer indices; names are unique within an Index.
type Group struct {
	Name    string
	Configs []*shell.Configuration
}

// Index holds every registered group and the symmetry-block partition of
// the CSFs produced so far.
type Index struct {
	groups    []*Group
	nameToIdx map[string]int
	blocks    map[int][]BasisState // key = encodePJ(parity, total2J)
	nCSFs     int
}

// NewIndex creates an empty group/symmetry index.
func NewIndex() *Index {
	return &Index{nameToIdx: map[string]int{}, blocks: map[int][]BasisState{}}
}

// AddGroup registers a new, uniquely-named group and returns its stable
// index. Returns an error if the name is already in use, matching the
// teacher's `msolid.GetModel` named-registry idiom (`inp/mat.go`).
func (idx *Index) AddGroup(name string) (int, error) {
	if _, ok := idx.nameToIdx[name]; ok {
		return -1, utl.Err("group: name %q is already registered\n", name)
	}
	i := len(idx.groups)
	idx.groups = append(idx.groups, &Group{Name: name})
	idx.nameToIdx[name] = i
	return i, nil
}

// GroupByName returns the stable index of a previously-registered group.
func (idx *Index) GroupByName(name string) (int, bool) {
	i, ok := idx.nameToIdx[name]
	return i, ok
}

// Group returns the group at the given stable index.
func (idx *Index) Group(i int) *Group { return idx.groups[i] }

// NGroups returns the number of registered groups.
func (idx *Index) NGroups() int { return len(idx.groups) }

// encodePJ packs (parity, total2J) into the spec's composite symmetry
// index: p + 2·J (J already 2×-scaled, so the parity bit is the key's
// low bit and the 2J value is the remaining high bits).
func encodePJ(parity, total2J int) int { return parity + 2*total2J }

// DecodePJ recovers (parity, total2J) from a composite symmetry index.
func DecodePJ(key int) (parity, total2J int) {
	parity = key % 2
	total2J = key / 2
	return
}

// AddConfigToList couples cfg, inserts the coupled configuration into
// group gi, and registers a basis-state record in the appropriate
// symmetry block for every CSF it produces. Returns the configuration's
// index within the group.
func (idx *Index) AddConfigToList(gi int, cfg *shell.Configuration) int {
	coupled := shell.Couple(cfg)
	g := idx.groups[gi]
	g.Configs = append(g.Configs, coupled)
	ci := len(g.Configs) - 1

	parity := coupled.Parity()
	for k := 0; k < coupled.NCSFs(); k++ {
		csf := coupled.CSFAt(k)
		total2J := csf[0].TotalJ2 // outermost shell carries the final coupled total
		key := encodePJ(parity, total2J)
		idx.blocks[key] = append(idx.blocks[key], BasisState{GroupIndex: gi, ConfigIndex: ci, CSFIndex: k})
		idx.nCSFs++
	}
	return ci
}

// Symmetry returns the basis states registered in the (parity, total2J)
// block.
func (idx *Index) Symmetry(parity, total2J int) []BasisState {
	return idx.blocks[encodePJ(parity, total2J)]
}

// NSymmetries returns the number of non-empty symmetry blocks.
func (idx *Index) NSymmetries() int { return len(idx.blocks) }

// TotalCSFs returns the total number of CSFs registered across every
// symmetry block.
func (idx *Index) TotalCSFs() int { return idx.nCSFs }

// CheckPartition verifies the invariant that every CSF of every registered
// configuration appears in exactly one symmetry block (Testable Property
// 3): the sum of block sizes must equal the total CSF count.
func (idx *Index) CheckPartition() error {
	sum := 0
	for _, b := range idx.blocks {
		sum += len(b)
	}
	if sum != idx.nCSFs {
		return utl.Err("group: symmetry partition mismatch: blocks sum to %d, registered %d\n", sum, idx.nCSFs)
	}
	return nil
}

// String renders a short summary, mirroring the teacher's `io.Sf`-based
// reporting idiom.
func (idx *Index) String() string {
	return io.Sf("group.Index{groups=%d, symmetries=%d, csfs=%d}", idx.NGroups(), idx.NSymmetries(), idx.nCSFs)
}
