// Package manifest reads the hand-authored part of an API description: the
// document info, the paths and their operations, the seed types whose
// schemas must always be generated, and optional static type declarations.
//
// A manifest is YAML or JSON:
//
//	info:
//	  title: Users API
//	  version: 1.0.0
//	seeds: [example.User]
//	paths:
//	  /api/users:
//	    description: Users collection
//	    get:
//	      description: Retrieve a list of users
//	      parameters:
//	        - {name: limit, in: query, description: Page size}
//	      responses:
//	        "200": "[]example.User"
//	        "400":
//	          properties:
//	            error: {type: string, example: Invalid input}
//	types:
//	  example.User:
//	    description: A user
//	    properties:
//	      - {name: id, type: int}
//	      - {name: name, type: string, description: Full name, example: Jan Kowalski}
//
// A schema is either a type expression (see [introspect.ParseTypeExpr]) or a
// mapping with the keys type, description, nullable, example, enum and
// properties. A mapping with properties is an inline object.
//
// Paths and responses keep the order in which they are written. Build
// assembles an [openapi.Document] from the manifest and generates the
// schemas of every referenced type:
//
//	m, err := manifest.Load("api.yaml")
//	if err != nil {
//		return err
//	}
//	gen := schemagen.New(m.Registry())
//	doc, err := m.Build(gen)
package manifest
