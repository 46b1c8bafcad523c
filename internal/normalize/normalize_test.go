package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func document(t *testing.T, data string) any {
	t.Helper()

	var doc any
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return doc
}

func TestApplyExcludesMappingEntries(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Match: "metadata.generation", Action: ActionExclude}}
	first := document(t, `{"metadata": {"generation": 4, "name": "app"}}`)
	second := document(t, `{"metadata": {"generation": 7, "name": "app"}}`)

	res, err := Apply(first, second, rules)
	require.NoError(t, err)

	want := document(t, `{"metadata": {"name": "app"}}`)
	assert.Equal(t, want, res.First)
	assert.Equal(t, want, res.Second)
	assert.Equal(t, []Applied{
		{Match: "metadata.generation", Action: ActionExclude, Path: "metadata.generation", Side: "first"},
		{Match: "metadata.generation", Action: ActionExclude, Path: "metadata.generation", Side: "second"},
	}, res.Applied)
}

func TestApplyExcludeNullsSequenceElements(t *testing.T) {
	t.Parallel()

	// Dropping the element outright would shift its siblings, so excluded
	// positions turn into null instead.
	rules := []Rule{{Match: "spec.containers[1]", Action: ActionExclude}}
	first := document(t, `{"spec": {"containers": ["app", "sidecar", "proxy"]}}`)

	res, err := Apply(first, nil, rules)
	require.NoError(t, err)
	assert.Equal(t, document(t, `{"spec": {"containers": ["app", null, "proxy"]}}`), res.First)
}

func TestApplyRenamesKeys(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Match: "spec.serviceName", Action: ActionRename, To: "service"}}
	first := document(t, `{"spec": {"serviceName": "web", "replicas": 2}}`)

	res, err := Apply(first, nil, rules)
	require.NoError(t, err)
	assert.Equal(t, document(t, `{"spec": {"service": "web", "replicas": 2}}`), res.First)
}

func TestApplyCoercesEmptyValuesToNull(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Match: "*", Action: ActionCoerceNull}}
	first := document(t, `{"a": "", "b": [], "c": {}, "d": "keep", "e": null}`)

	res, err := Apply(first, nil, rules)
	require.NoError(t, err)
	assert.Equal(t, document(t, `{"a": null, "b": null, "c": null, "d": "keep", "e": null}`), res.First)

	// Null itself never counts as a coercion hit.
	for _, a := range res.Applied {
		assert.NotEqual(t, "e", a.Path)
	}
}

func TestApplyCoercionSeesExclusions(t *testing.T) {
	t.Parallel()

	// The container rewrite happens before the coercion check, so a mapping
	// emptied by an exclude rule collapses to null.
	rules := []Rule{
		{Match: "a.b", Action: ActionExclude},
		{Match: "a", Action: ActionCoerceNull},
	}
	first := document(t, `{"a": {"b": 1}}`)

	res, err := Apply(first, nil, rules)
	require.NoError(t, err)
	assert.Equal(t, document(t, `{"a": null}`), res.First)
}

func TestApplyFirstMatchWins(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{Match: "spec.name", Action: ActionRename, To: "title"},
		{Match: "spec.name", Action: ActionExclude},
	}
	first := document(t, `{"spec": {"name": "web"}}`)

	res, err := Apply(first, nil, rules)
	require.NoError(t, err)
	assert.Equal(t, document(t, `{"spec": {"title": "web"}}`), res.First)
}

func TestApplyWholeDocument(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Match: "root", Action: ActionCoerceNull}}

	res, err := Apply(document(t, `{}`), document(t, `{"a": 1}`), rules)
	require.NoError(t, err)
	assert.Nil(t, res.First)
	assert.Equal(t, document(t, `{"a": 1}`), res.Second)
}

func TestApplyLeavesInputsAlone(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{Match: "spec.serviceName", Action: ActionRename, To: "service"},
		{Match: "spec.volumes[0]", Action: ActionExclude},
	}
	raw := `{"spec": {"serviceName": "web", "volumes": ["data", "cache"]}}`
	first := document(t, raw)

	_, err := Apply(first, nil, rules)
	require.NoError(t, err)
	assert.Equal(t, document(t, raw), first)
}

func TestApplyRejectsInvalidRules(t *testing.T) {
	t.Parallel()

	_, err := Apply(nil, nil, []Rule{{Match: "a", Action: "drop"}})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRuleInvalid)
}
