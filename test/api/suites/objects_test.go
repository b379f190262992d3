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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/objects-e2e/test/api"
)

var _ = Describe("Core Object Management", func() {
	Context("When listing objects", func() {
		It("should return every object with an id and a name", func() {
			resp, err := client.Send(ctx, http.MethodGet, client.Endpoints().ListObjects())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			objects, err := api.DecodeObjects(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			for _, object := range objects {
				Expect(object.ID).NotTo(BeEmpty())
				Expect(object.Name).NotTo(BeEmpty(), "object %s should have a name", object.ID)
			}

			GinkgoWriter.Printf("Listed %d objects\n", len(objects))
		})
	})

	Context("When creating a new object", func() {
		Describe("Given a valid object representation", func() {
			It("should successfully create the object", func() {
				fixtures := api.NewScopedFixtureManager(ctx, client)

				resp, err := client.Send(ctx, http.MethodPost, client.Endpoints().CreateObject(),
					api.WithJSONBody(api.NewObjectPayload().Build()))
				Expect(err).NotTo(HaveOccurred())

				// Adopt the object before asserting anything else so it is
				// cleaned up even if the assertions below fail.
				id, err := api.ExtractString(resp.Body, "id")
				Expect(err).NotTo(HaveOccurred())
				fixtures.Track(id)

				Expect(resp.StatusCode).To(BeElementOf(http.StatusOK, http.StatusCreated))

				name, err := api.ExtractString(resp.Body, "name")
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal(api.DefaultObjectName))

				generation, err := api.ExtractString(resp.Body, "data.Generation")
				Expect(err).NotTo(HaveOccurred())
				Expect(generation).To(Equal("4th"))
			})
		})
	})

	Context("When retrieving a specific object", func() {
		Describe("Given the object exists", func() {
			It("should return the object as created", func() {
				_, objectID := api.CreateObjectWithCleanup(client, ctx, api.NewObjectPayload().Build())

				resp, err := client.Send(ctx, http.MethodGet, client.Endpoints().GetObject(objectID))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				id, err := api.ExtractString(resp.Body, "id")
				Expect(err).NotTo(HaveOccurred())
				Expect(id).To(Equal(objectID))

				name, err := api.ExtractString(resp.Body, "name")
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal(api.DefaultObjectName))
			})
		})

		Describe("Given the object does not exist", func() {
			It("should return a not found error", func() {
				_, err := client.GetObject(ctx, "non-existent-object-"+api.GenerateTestID())
				Expect(err).To(HaveOccurred())
				Expect(api.IsNotFound(err)).To(BeTrue(), "expected 404, got: %v", err)
			})
		})
	})

	Context("When updating an object", func() {
		var objectID string

		BeforeEach(func() {
			_, objectID = api.CreateObjectWithCleanup(client, ctx, api.NewObjectPayload().Build())
		})

		Describe("Given valid update parameters", func() {
			It("should successfully replace the object", func() {
				resp, err := client.Send(ctx, http.MethodPut, client.Endpoints().UpdateObject(objectID),
					api.WithJSONBody(api.NewUpdatePayload().Build()))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				name, err := api.ExtractString(resp.Body, "name")
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal(api.UpdatedObjectName))

				color, err := api.ExtractString(resp.Body, "data.color")
				Expect(err).NotTo(HaveOccurred())
				Expect(color).To(Equal("Yellow"))
			})

			It("should reflect the update on subsequent reads", func() {
				_, err := client.UpdateObject(ctx, objectID, api.NewUpdatePayload().Build())
				Expect(err).NotTo(HaveOccurred())

				updated, err := client.GetObject(ctx, objectID)
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Name).To(Equal(api.UpdatedObjectName))
				Expect(updated.Data).To(HaveKeyWithValue("color", "Yellow"))
				Expect(updated.Data).To(HaveKeyWithValue("Capacity", "128 GB"))
			})
		})
	})

	Context("When deleting an object", func() {
		Describe("Given the object exists", func() {
			It("should successfully delete the object", func() {
				_, objectID := api.CreateObjectWithCleanup(client, ctx, api.NewObjectPayload().Build())

				status, err := client.DeleteObject(ctx, objectID)
				Expect(err).NotTo(HaveOccurred())
				Expect(status).To(BeElementOf(http.StatusOK, http.StatusNoContent))

				Eventually(func() bool {
					_, getErr := client.GetObject(ctx, objectID)
					return api.IsNotFound(getErr)
				}).WithTimeout(config.TestTimeout).WithPolling(time.Second).Should(BeTrue())
			})
		})
	})

	Context("When repeating API operations", func() {
		Describe("Given idempotent operations", func() {
			It("should handle repeated delete operations", func() {
				_, objectID := api.CreateObjectWithCleanup(client, ctx, api.NewObjectPayload().Build())

				_, err := client.DeleteObject(ctx, objectID)
				Expect(err).NotTo(HaveOccurred())

				// Repeated delete should be idempotent - no error (accepts 404)
				_, err = client.DeleteObject(ctx, objectID)
				Expect(err).NotTo(HaveOccurred(), "Repeated delete should be idempotent and not return an error")
			})
		})
	})
})
