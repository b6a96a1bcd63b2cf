package driver

const (
	SaveMaterialQuery = `
		MERGE (m:Material {ref_id: $ref_id})
		SET m.material_name = $material_name,
			m.document = $document,
			m.big_class_name = $big_class_name,
			m.middle_class_name = $middle_class_name,
			m.small_class_name = $small_class_name,
			m.small_class_code = $small_class_code,
			m.embedding = $embedding
		RETURN m.ref_id AS ref_id
	`

	// Memgraph MAGE vector search: distance is cosine distance in [0, 2]
	// when the index was created with the "cos" metric.
	SearchMaterialsQuery = `
		CALL vector_search.search($index_name, $k, $embedding)
		YIELD node, distance
		RETURN node.ref_id AS ref_id,
			node.material_name AS material_name,
			node.big_class_name AS big_class_name,
			node.middle_class_name AS middle_class_name,
			node.small_class_name AS small_class_name,
			distance
	`

	CountMaterialsQuery = `
		MATCH (m:Material)
		RETURN count(m) AS total
	`

	DeleteMaterialsQuery = `
		MATCH (m:Material)
		DETACH DELETE m
	`
)
