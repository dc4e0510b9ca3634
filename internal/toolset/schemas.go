package toolset

import "encoding/json"

var greetSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"name": {
			"type": "string",
			"description": "The name of the person to greet"
		}
	},
	"required": ["name"]
}`)

var searchImagesSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "Search terms, for example \"nginx\" or \"postgres alpine\""
		},
		"page": {
			"type": "integer",
			"description": "1-based page number",
			"minimum": 1,
			"default": 1
		},
		"page_size": {
			"type": "integer",
			"description": "Results per page",
			"minimum": 1,
			"maximum": 100,
			"default": 25
		}
	},
	"required": ["query"]
}`)

var imageNameSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"image_name": {
			"type": "string",
			"description": "Image name as [namespace/]repository, for example \"nginx\" or \"bitnami/redis\""
		}
	},
	"required": ["image_name"]
}`)

var listImageTagsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"image_name": {
			"type": "string",
			"description": "Image name as [namespace/]repository"
		},
		"page": {
			"type": "integer",
			"description": "1-based page number",
			"minimum": 1,
			"default": 1
		},
		"page_size": {
			"type": "integer",
			"description": "Tags per page",
			"minimum": 1,
			"maximum": 100,
			"default": 25
		}
	},
	"required": ["image_name"]
}`)

var tagDetailsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"image_name": {
			"type": "string",
			"description": "Image name as [namespace/]repository"
		},
		"tag": {
			"type": "string",
			"description": "Tag name",
			"default": "latest"
		}
	},
	"required": ["image_name"]
}`)

var compareImagesSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"image_names": {
			"type": "array",
			"description": "Between 2 and 10 image names to compare",
			"items": {"type": "string"}
		}
	},
	"required": ["image_names"]
}`)

var compareTagsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"image_name": {
			"type": "string",
			"description": "Image name as [namespace/]repository"
		},
		"tag1": {
			"type": "string",
			"description": "First tag, the baseline"
		},
		"tag2": {
			"type": "string",
			"description": "Second tag, compared against the first"
		}
	},
	"required": ["image_name", "tag1", "tag2"]
}`)
