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

// Package api provides integration test utilities for the Objects API.
//
// # Client
//
// APIClient.Send issues exactly one request and hands back the status code
// and body whatever they are, failing only when no response was obtained
// (a *TransportError).  The typed helpers (CreateObject, GetObject, ...)
// sit on top of it and turn unexpected statuses into a *StatusError.  Every
// request carries a fresh W3C traceparent so failures can be correlated with
// server side logs.
//
// # Fixtures
//
// Objects a test needs are created through a FixtureManager, which deletes
// them when the owning scope ends, on success and on failure alike.  Tests
// never rely on an object created by another test: either they create their
// own, or an Ordered container creates one in BeforeAll and passes it to its
// specs explicitly.  Cleanup failures are logged, never reported as the
// test's failure.
//
// # Assertions
//
// Prefer ExtractField/ExtractString or the decoded Object over substring
// matching on raw bodies.  ContractValidator additionally checks responses
// against the embedded OpenAPI description.
package api
