package fasthist

import (
	"encoding/json"
	"os"
)

// treeDoc is the JSON-serializable mirror of LinkedTree: splitBinID is
// unexported (it is an internal replay detail of Predict, not part of the
// tree's public shape), so it needs an explicit wire representation
// rather than relying on encoding/json's reflection over LinkedTree
// itself.
type treeDoc struct {
	Left, Right  *treeDoc
	FeatureIndex int
	Threshold    float64
	LeafValue    []float64
	SplitBinID   int
}

func toDoc(t *LinkedTree) *treeDoc {
	if t == nil {
		return nil
	}
	return &treeDoc{
		Left:         toDoc(t.Left),
		Right:        toDoc(t.Right),
		FeatureIndex: t.FeatureIndex,
		Threshold:    t.Threshold,
		LeafValue:    t.LeafValue,
		SplitBinID:   t.splitBinID,
	}
}

func fromDoc(d *treeDoc) *LinkedTree {
	if d == nil {
		return nil
	}
	return &LinkedTree{
		Left:         fromDoc(d.Left),
		Right:        fromDoc(d.Right),
		FeatureIndex: d.FeatureIndex,
		Threshold:    d.Threshold,
		LeafValue:    d.LeafValue,
		splitBinID:   d.SplitBinID,
	}
}

// SaveTree persists a built tree as indented JSON, adapted from
// EBooster.Save.
func SaveTree(tree *LinkedTree, filename string) error {
	dest, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer dest.Close()

	body, err := json.MarshalIndent(toDoc(tree), "", "  ")
	if err != nil {
		return err
	}
	_, err = dest.Write(body)
	return err
}

// LoadTree reads back a tree saved by SaveTree, adapted from
// EBooster.LoadModel.
func LoadTree(filename string) (*LinkedTree, error) {
	source, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	var doc treeDoc
	if err := json.NewDecoder(source).Decode(&doc); err != nil {
		return nil, err
	}
	return fromDoc(&doc), nil
}
