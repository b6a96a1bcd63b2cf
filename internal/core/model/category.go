package model

// CategoryRecord is one row of the coded taxonomy as delivered by the
// category source: an opaque code whose length encodes the level
// (2 = level 1, 4 = level 2, 6 = level 3), plus the display name.
type CategoryRecord struct {
	Code       string `json:"category_code"`
	Name       string `json:"cate_name"`
	CodeLength int    `json:"code_length"`
}

// CategoryNode is a node of the built 3-level taxonomy tree. Children are
// keyed by child code and owned by their parent.
type CategoryNode struct {
	Code     string                   `json:"code"`
	Name     string                   `json:"name"`
	Level    int                      `json:"level"`
	Children map[string]*CategoryNode `json:"children"`
}

// ReferenceEntry is one nearest-neighbor hit from the semantic index: a
// cosine distance plus the taxonomy metadata of the matched reference item.
type ReferenceEntry struct {
	ID           string  `json:"id"`
	MaterialName string  `json:"material_name"`
	Distance     float64 `json:"distance"`
	BigClass     string  `json:"big_class_name"`
	MiddleClass  string  `json:"middle_class_name"`
	SmallClass   string  `json:"small_class_name"`
}

// ReferenceMaterial is one reference item row loaded into the semantic
// index (from the hdl_material_pure table in the surrounding system).
type ReferenceMaterial struct {
	ID              string `json:"id"`
	MaterialName    string `json:"material_name"`
	BigClassName    string `json:"big_class_name"`
	MiddleClassName string `json:"middle_class_name"`
	SmallClassName  string `json:"small_class_name"`
	SmallClassCode  string `json:"small_class_code"`
}
