//go:build integration

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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/objects-e2e/test/api"
)

var _ = Describe("Response Conformance", func() {
	Context("When exercising every operation", func() {
		It("should return responses matching the OpenAPI description", func() {
			endpoints := client.Endpoints()

			resp, err := client.Send(ctx, http.MethodGet, endpoints.ListObjects())
			Expect(err).NotTo(HaveOccurred())
			Expect(contract.ValidateResponse(ctx, http.MethodGet, api.ObjectsTemplate, resp)).To(Succeed())

			_, objectID := api.CreateObjectWithCleanup(client, ctx, api.NewObjectPayload().Build())

			resp, err = client.Send(ctx, http.MethodGet, endpoints.GetObject(objectID))
			Expect(err).NotTo(HaveOccurred())
			Expect(contract.ValidateResponse(ctx, http.MethodGet, api.ObjectTemplate, resp)).To(Succeed())

			resp, err = client.Send(ctx, http.MethodPut, endpoints.UpdateObject(objectID), api.WithJSONBody(api.NewUpdatePayload().Build()))
			Expect(err).NotTo(HaveOccurred())
			Expect(contract.ValidateResponse(ctx, http.MethodPut, api.ObjectTemplate, resp)).To(Succeed())

			resp, err = client.Send(ctx, http.MethodDelete, endpoints.DeleteObject(objectID))
			Expect(err).NotTo(HaveOccurred())
			Expect(contract.ValidateResponse(ctx, http.MethodDelete, api.ObjectTemplate, resp)).To(Succeed())

			resp, err = client.Send(ctx, http.MethodGet, endpoints.GetObject(objectID))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(contract.ValidateResponse(ctx, http.MethodGet, api.ObjectTemplate, resp)).To(Succeed())
		})

		It("should return a conforming create response", func() {
			fixtures := api.NewScopedFixtureManager(ctx, client)

			resp, err := client.Send(ctx, http.MethodPost, client.Endpoints().CreateObject(), api.WithJSONBody(api.NewObjectPayload().Build()))
			Expect(err).NotTo(HaveOccurred())

			if id, idErr := api.ExtractString(resp.Body, "id"); idErr == nil {
				fixtures.Track(id)
			}

			Expect(contract.ValidateResponse(ctx, http.MethodPost, api.ObjectsTemplate, resp)).To(Succeed())
		})
	})
})
