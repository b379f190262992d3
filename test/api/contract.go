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
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

//go:embed openapi/objects.yaml
var objectsSchema []byte

// ContractValidator checks responses against the OpenAPI description of the
// objects API.  It is a separate, stricter check than field extraction and is
// only used by the conformance scenarios.
type ContractValidator struct {
	spec *openapi3.T
}

func NewContractValidator() (*ContractValidator, error) {
	loader := openapi3.NewLoader()

	spec, err := loader.LoadFromData(objectsSchema)
	if err != nil {
		return nil, fmt.Errorf("loading objects schema: %w", err)
	}

	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating objects schema: %w", err)
	}

	return &ContractValidator{
		spec: spec,
	}, nil
}

// ValidateResponse checks the status code, content type and body of resp
// against the operation identified by method and the path template, e.g.
// ObjectTemplate.
func (v *ContractValidator) ValidateResponse(ctx context.Context, method, template string, resp *Response) error {
	pathItem := v.spec.Paths.Value(template)
	if pathItem == nil {
		return fmt.Errorf("path %s is not described by the objects schema", template)
	}

	operation := pathItem.GetOperation(method)
	if operation == nil {
		return fmt.Errorf("operation %s %s is not described by the objects schema", method, template)
	}

	req, err := http.NewRequestWithContext(ctx, method, "http://localhost"+ObjectsTemplate, nil)
	if err != nil {
		return fmt.Errorf("creating validation request: %w", err)
	}

	options := &openapi3filter.Options{
		IncludeResponseStatus: true,
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request: req,
			Route: &routers.Route{
				Spec:      v.spec,
				Path:      template,
				PathItem:  pathItem,
				Method:    method,
				Operation: operation,
			},
			Options: options,
		},
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Options: options,
	}

	input.SetBodyBytes(resp.Body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%s %s response does not conform (trace ID: %s): %w", method, template, resp.TraceID, err)
	}

	return nil
}
