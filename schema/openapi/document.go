package openapi

import (
	"fmt"
	"strings"
)

const (
	itemComponent      = "Item"
	inventoryComponent = "Inventory"
)

type documentBuilder struct {
	config generatorConfig
	item   map[string]any
}

func newDocumentBuilder(config generatorConfig, item map[string]any) *documentBuilder {
	return &documentBuilder{config: config, item: item}
}

func componentRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func (b *documentBuilder) build() (map[string]any, error) {
	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths(),
		"components": map[string]any{
			"schemas": map[string]any{
				itemComponent: b.item,
				inventoryComponent: map[string]any{
					"type":        "array",
					"items":       componentRef(itemComponent),
					"description": "Rows in display order. Ids are unique but not necessarily contiguous.",
				},
			},
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.info.Title,
		"version": b.config.info.Version,
	}
	if b.config.info.Description != "" {
		info["description"] = b.config.info.Description
	}
	return info
}

func (b *documentBuilder) buildPaths() map[string]any {
	content := map[string]any{
		b.config.contentType: map[string]any{
			"schema": componentRef(inventoryComponent),
		},
	}
	key := map[string]any{
		"name":     "key",
		"in":       "path",
		"required": true,
		"schema": map[string]any{
			"type":    "string",
			"default": b.config.storageKey,
		},
	}
	return map[string]any{
		"/storage/{key}": map[string]any{
			"parameters": []any{key},
			"get": map[string]any{
				"operationId": "loadInventory",
				"summary":     "Read the stored inventory",
				"responses": map[string]any{
					"200": map[string]any{"description": "Stored rows", "content": content},
					"404": map[string]any{"description": "Nothing stored; the editor seeds"},
				},
			},
			"put": map[string]any{
				"operationId": "commitInventory",
				"summary":     "Replace the stored inventory with the full list",
				"requestBody": map[string]any{
					"required": true,
					"content":  content,
				},
				"responses": map[string]any{
					"204": map[string]any{"description": "Committed"},
				},
			},
		},
	}
}

func validateDocument(document map[string]any) error {
	if version, _ := document["openapi"].(string); version == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); strings.TrimSpace(title) == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); strings.TrimSpace(version) == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, value := range pathItem {
			if method == "parameters" {
				continue
			}
			operation, _ := value.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
