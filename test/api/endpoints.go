/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
	"net/url"
)

// Path templates as they appear in the OpenAPI document.
const (
	ObjectsTemplate = "/objects"
	ObjectTemplate  = "/objects/{id}"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

func (e *Endpoints) ListObjects() string {
	return ObjectsTemplate
}

func (e *Endpoints) CreateObject() string {
	return ObjectsTemplate
}

func (e *Endpoints) GetObject(objectID string) string {
	return fmt.Sprintf("/objects/%s", url.PathEscape(objectID))
}

func (e *Endpoints) UpdateObject(objectID string) string {
	return fmt.Sprintf("/objects/%s", url.PathEscape(objectID))
}

func (e *Endpoints) DeleteObject(objectID string) string {
	return fmt.Sprintf("/objects/%s", url.PathEscape(objectID))
}

// ListObjectsQuery returns the query selecting a subset of objects by ID.
func (e *Endpoints) ListObjectsQuery(objectIDs ...string) url.Values {
	if len(objectIDs) == 0 {
		return nil
	}

	query := url.Values{}

	for _, id := range objectIDs {
		query.Add("id", id)
	}

	return query
}
