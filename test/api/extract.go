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
	"encoding/json"
	"errors"
	"strings"
)

var errEmptyFieldPath = errors.New("empty field path")

// ExtractField parses body as JSON and returns the value at the dot separated
// path, e.g. "name" or "data.color".
func ExtractField(body []byte, path string) (interface{}, error) {
	if path == "" {
		return nil, errEmptyFieldPath
	}

	var document interface{}
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, &MalformedResponseError{Body: body, Err: err}
	}

	current := document

	for _, segment := range strings.Split(path, ".") {
		object, ok := current.(map[string]interface{})
		if !ok {
			return nil, &MissingFieldError{Field: path}
		}

		value, ok := object[segment]
		if !ok {
			return nil, &MissingFieldError{Field: path}
		}

		current = value
	}

	return current, nil
}

// ExtractString is ExtractField for fields that must hold a string.
func ExtractString(body []byte, path string) (string, error) {
	value, err := ExtractField(body, path)
	if err != nil {
		return "", err
	}

	s, ok := value.(string)
	if !ok {
		return "", &MissingFieldError{Field: path, Reason: "is not a string"}
	}

	return s, nil
}

// DecodeObject decodes a single object representation.
func DecodeObject(body []byte) (*Object, error) {
	var object Object
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, &MalformedResponseError{Body: body, Err: err}
	}

	return &object, nil
}

// DecodeObjects decodes a list of object representations.
func DecodeObjects(body []byte) ([]Object, error) {
	var objects []Object
	if err := json.Unmarshal(body, &objects); err != nil {
		return nil, &MalformedResponseError{Body: body, Err: err}
	}

	return objects, nil
}
