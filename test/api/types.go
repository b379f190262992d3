/*
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
	"context"
	"net/http"
	"time"
)

// Object is the representation of the objects resource.  ID and the
// timestamps are assigned by the service and omitted on requests.
type Object struct {
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt string                 `json:"createdAt,omitempty"`
	UpdatedAt string                 `json:"updatedAt,omitempty"`
}

// Response is what the service replied with, whatever the status code.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	TraceID    string
	Duration   time.Duration
}

// ObjectClient is the subset of the client the fixture manager needs.
//
//go:generate mockgen -source=types.go -destination=mock/interfaces.go -package=mock
type ObjectClient interface {
	CreateObject(ctx context.Context, object Object) (*Object, error)
	ListObjects(ctx context.Context, objectIDs ...string) ([]Object, error)
	DeleteObject(ctx context.Context, objectID string) (int, error)
}
