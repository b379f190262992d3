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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/google/uuid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// FixtureTagKey is the data attribute every tracked object is labelled with.
// It lets a create whose response never arrived be found again for cleanup.
const FixtureTagKey = "fixtureTag"

const defaultCleanupTimeout = 30 * time.Second

var errUnresolvedFixture = errors.New("no object carries the fixture tag")

// Fixture records an object created by a test scope.  ID is empty while the
// outcome of the create is unknown.
type Fixture struct {
	ID        string
	Tag       string
	Name      string
	Owner     string
	CreatedAt time.Time
}

// Pending is true when the create request failed in transit.
func (f Fixture) Pending() bool {
	return f.ID == ""
}

// FixtureManager owns the objects created during a test scope and deletes
// each exactly once when the scope ends, whether the test passed or not.
type FixtureManager struct {
	client         ObjectClient
	logger         logr.Logger
	owner          string
	cleanupTimeout time.Duration

	lock     sync.Mutex
	fixtures []Fixture
}

type FixtureOption func(*FixtureManager)

// WithLogger sets where cleanup progress and failures are reported.
func WithLogger(logger logr.Logger) FixtureOption {
	return func(m *FixtureManager) {
		m.logger = logger
	}
}

// WithOwner names the scope fixtures belong to, for log output.
func WithOwner(owner string) FixtureOption {
	return func(m *FixtureManager) {
		m.owner = owner
	}
}

// WithCleanupTimeout bounds each release, including pending fixture lookup.
func WithCleanupTimeout(timeout time.Duration) FixtureOption {
	return func(m *FixtureManager) {
		if timeout > 0 {
			m.cleanupTimeout = timeout
		}
	}
}

func NewFixtureManager(client ObjectClient, opts ...FixtureOption) *FixtureManager {
	m := &FixtureManager{
		client:         client,
		logger:         logr.Discard(),
		cleanupTimeout: defaultCleanupTimeout,
	}

	for _, o := range opts {
		o(m)
	}

	return m
}

// CreateTracked creates an object and records it for cleanup.  If the create
// fails in any way other than being rejected, the object may still exist, so
// it is recorded as pending and looked up by its tag on release.
func (m *FixtureManager) CreateTracked(ctx context.Context, object Object) (*Object, error) {
	tag := uuid.NewString()

	object.Data = maps.Clone(object.Data)
	if object.Data == nil {
		object.Data = map[string]interface{}{}
	}

	object.Data[FixtureTagKey] = tag

	fixture := Fixture{
		Tag:       tag,
		Name:      object.Name,
		Owner:     m.owner,
		CreatedAt: time.Now(),
	}

	created, err := m.client.CreateObject(ctx, object)
	if err != nil {
		if mayHaveCreated(err) {
			m.add(fixture)
			m.logger.Info("create outcome unknown, queued for best-effort cleanup by tag; "+
				"the service listing may omit it, search for this tag to remove it by hand",
				"tag", tag, "field", "data."+FixtureTagKey, "owner", m.owner, "error", err.Error())
		}

		return nil, err
	}

	fixture.ID = created.ID
	m.add(fixture)

	m.logger.V(1).Info("tracking fixture", "id", created.ID, "owner", m.owner)

	return created, nil
}

// Track adopts an object created by other means.
func (m *FixtureManager) Track(objectID string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.indexOf(objectID) >= 0 {
		return
	}

	m.fixtures = append(m.fixtures, Fixture{
		ID:        objectID,
		Owner:     m.owner,
		CreatedAt: time.Now(),
	})
}

// Tracked returns a snapshot of the fixtures not yet released.
func (m *FixtureManager) Tracked() []Fixture {
	m.lock.Lock()
	defer m.lock.Unlock()

	return slices.Clone(m.fixtures)
}

// Release deletes a single fixture and stops tracking it.  Unknown IDs and
// objects that are already gone are not errors.
func (m *FixtureManager) Release(ctx context.Context, objectID string) error {
	m.lock.Lock()

	i := m.indexOf(objectID)
	if i < 0 {
		m.lock.Unlock()
		return nil
	}

	fixture := m.fixtures[i]
	m.fixtures = slices.Delete(m.fixtures, i, i+1)

	m.lock.Unlock()

	return m.release(ctx, fixture)
}

// ReleaseAll deletes every tracked fixture, newest first.  Calling it again
// is a no-op.  Failures are logged and returned, they never fail a test.
func (m *FixtureManager) ReleaseAll(ctx context.Context) []error {
	m.lock.Lock()
	fixtures := m.fixtures
	m.fixtures = nil
	m.lock.Unlock()

	var errs []error

	for _, fixture := range slices.Backward(fixtures) {
		if err := m.release(ctx, fixture); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// mayHaveCreated is false only when the service rejected the create with an
// error status.  Anything else, a lost reply or a 2xx body that could not be
// read, may have left an object behind.
func mayHaveCreated(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Actual < http.StatusBadRequest
	}

	return true
}

func (m *FixtureManager) add(fixture Fixture) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.fixtures = append(m.fixtures, fixture)
}

// indexOf must be called with the lock held.
func (m *FixtureManager) indexOf(objectID string) int {
	if objectID == "" {
		return -1
	}

	return slices.IndexFunc(m.fixtures, func(f Fixture) bool {
		return f.ID == objectID
	})
}

func (m *FixtureManager) release(ctx context.Context, fixture Fixture) error {
	// The test context may already be cancelled, cleanup must still happen.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cleanupTimeout)
	defer cancel()

	if fixture.Pending() {
		id, err := m.resolve(ctx, fixture.Tag)
		if err != nil {
			return m.cleanupFailed(fixture, err)
		}

		fixture.ID = id
	}

	status, err := m.client.DeleteObject(ctx, fixture.ID)
	if err != nil {
		return m.cleanupFailed(fixture, err)
	}

	m.logger.Info("released fixture", "id", fixture.ID, "owner", fixture.Owner, "status", status)

	return nil
}

func (m *FixtureManager) resolve(ctx context.Context, tag string) (string, error) {
	objects, err := m.client.ListObjects(ctx)
	if err != nil {
		return "", err
	}

	for _, object := range objects {
		if value, ok := object.Data[FixtureTagKey].(string); ok && value == tag {
			return object.ID, nil
		}
	}

	return "", errUnresolvedFixture
}

func (m *FixtureManager) cleanupFailed(fixture Fixture, err error) error {
	cleanupErr := &CleanupError{ID: fixture.ID, Tag: fixture.Tag, Err: err}

	m.logger.Error(cleanupErr, "Warning: fixture cleanup failed", "owner", fixture.Owner)

	return cleanupErr
}

// NewScopedFixtureManager returns a manager whose fixtures are released when
// the current Ginkgo node's scope ends: the It, or for BeforeAll the whole
// Ordered container.
func NewScopedFixtureManager(ctx context.Context, client ObjectClient, opts ...FixtureOption) *FixtureManager {
	defaults := []FixtureOption{
		WithLogger(GinkgoLogr),
		WithOwner(CurrentSpecReport().FullText()),
	}

	m := NewFixtureManager(client, append(defaults, opts...)...)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		_ = m.ReleaseAll(ctx)
	})

	return m
}

// NewTestFixtureManager is NewScopedFixtureManager for plain go tests.
func NewTestFixtureManager(t testing.TB, client ObjectClient, opts ...FixtureOption) *FixtureManager {
	t.Helper()

	defaults := []FixtureOption{
		WithLogger(testr.NewWithInterface(t, testr.Options{})),
		WithOwner(t.Name()),
	}

	m := NewFixtureManager(client, append(defaults, opts...)...)

	t.Cleanup(func() {
		_ = m.ReleaseAll(context.Background())
	})

	return m
}

// CreateObjectWithCleanup creates an object and schedules its deletion at the
// end of the current Ginkgo scope.
func CreateObjectWithCleanup(client ObjectClient, ctx context.Context, payload Object) (*Object, string) {
	fixtures := NewScopedFixtureManager(ctx, client)

	object, err := fixtures.CreateTracked(ctx, payload)
	Expect(err).NotTo(HaveOccurred(), "creating fixture object")

	GinkgoWriter.Printf("Created object with ID: %s\n", object.ID)

	return object, object.ID
}

// ExpectObjectGone asserts that fetching each object reports not found.
func ExpectObjectGone(client *APIClient, ctx context.Context, objectIDs ...string) {
	for _, id := range objectIDs {
		_, err := client.GetObject(ctx, id)
		Expect(err).To(HaveOccurred(), "object %s should no longer exist", id)
		Expect(IsNotFound(err)).To(BeTrue(), "expected 404 for object %s, got: %v", id, err)
	}
}
