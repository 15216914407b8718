package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/glosa"
)

const docURI = "http://example.com/article"

func newService(t *testing.T) *glosa.Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "annotations.db")
	svc, err := glosa.New(path,
		glosa.WithAdapter("local"),
		glosa.WithDocumentURI(docURI),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestServiceRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	ann := glosa.Annotation{"text": "first note", "tags": []string{"review"}}
	_, err := svc.Create(ctx, ann)
	require.NoError(t, err)
	require.NotEmpty(t, ann.UUID())
	assert.Equal(t, docURI, ann.URI())

	page, err := svc.Query(ctx, glosa.Query{URI: docURI})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, ann.UUID(), page.Results[0].UUID())
	assert.Equal(t, 1, page.Meta.Total())

	ann["text"] = "edited note"
	_, err = svc.Update(ctx, ann)
	require.NoError(t, err)

	page, err = svc.Query(ctx, glosa.Query{URI: docURI})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "edited note", page.Results[0]["text"])

	_, err = svc.Delete(ctx, ann)
	require.NoError(t, err)

	page, err = svc.Query(ctx, glosa.Query{URI: docURI})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}

func TestHooksAcrossTheFacade(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var order []string
	svc.Hooks().OnBeforeAnnotationCreated(func(ctx context.Context, a glosa.Annotation) error {
		order = append(order, "before")
		a["stamped"] = true
		return nil
	})
	svc.Hooks().OnAnnotationCreated(func(ctx context.Context, a glosa.Annotation) error {
		order = append(order, "after")
		return nil
	})
	svc.Hooks().OnAnnotationsLoaded(func(ctx context.Context, results []glosa.Annotation) error {
		order = append(order, "loaded")
		return nil
	})

	ann := glosa.Annotation{"text": "hooked"}
	_, err := svc.Create(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, true, ann["stamped"], "before-hook mutation should persist")

	_, err = svc.Load(ctx, glosa.Query{URI: docURI})
	require.NoError(t, err)

	assert.Equal(t, []string{"before", "after", "loaded"}, order)
}

func TestLoadSeesRecordsFromAnotherService(t *testing.T) {
	// Two services over the same database file and namespace behave like two
	// browsing contexts on one machine.
	path := filepath.Join(t.TempDir(), "annotations.db")

	svcX, err := glosa.New(path, glosa.WithDocumentURI(docURI))
	require.NoError(t, err)

	ann := glosa.Annotation{"text": "from X"}
	_, err = svcX.Create(context.Background(), ann)
	require.NoError(t, err)
	require.NoError(t, svcX.Close())

	svcY, err := glosa.New(path, glosa.WithDocumentURI(docURI))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svcY.Close() })

	page, err := svcY.Load(context.Background(), glosa.Query{URI: docURI})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, ann.UUID(), page.Results[0].UUID())
}
