package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCutSignature(t *testing.T) {
	tests := []struct {
		sig      string
		name     string
		params   []string
		callable bool
	}{
		{"join(java.lang.CharSequence,java.lang.CharSequence...)", "join", []string{"java.lang.CharSequence", "java.lang.CharSequence..."}, true},
		{"join-java.lang.CharSequence-java.lang.CharSequence...-", "join", []string{"java.lang.CharSequence", "java.lang.CharSequence..."}, true},
		{"valueOf-char:A-", "valueOf", []string{"char[]"}, true},
		{"length()", "length", []string{}, true},
		{"length--", "length", []string{}, true},
		{"of(K,V,java.util.Map<K,V>)", "of", []string{"K", "V", "java.util.Map<K,V>"}, true},
		{"CASE_INSENSITIVE_ORDER", "CASE_INSENSITIVE_ORDER", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			name, params, callable := cutSignature(tt.sig)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.params, params)
			assert.Equal(t, tt.callable, callable)
		})
	}
}

func TestParameterMatches(t *testing.T) {
	tests := []struct {
		written, recorded string
		want              bool
	}{
		{"CharSequence", "java.lang.CharSequence", true},
		{"CharSequence...", "java.lang.CharSequence...", true},
		{"lang.CharSequence", "java.lang.CharSequence", true},
		{"java.lang.CharSequence", "java.lang.CharSequence", true},
		{"int[]", "int[]", true},
		{"List<String>", "java.util.List", true},
		{"List", "java.util.List<E>", true},
		{"Sequence", "java.lang.CharSequence", false},
		{"CharSequence", "java.lang.CharSequence...", false},
		{"int", "long", false},
	}
	for _, tt := range tests {
		t.Run(tt.written+"~"+tt.recorded, func(t *testing.T) {
			assert.Equal(t, tt.want, ParameterMatches(tt.written, tt.recorded))
		})
	}
}

func TestParametersMatch(t *testing.T) {
	recorded := []string{"java.lang.CharSequence", "java.lang.CharSequence..."}
	assert.True(t, ParametersMatch([]string{"CharSequence", "CharSequence..."}, recorded))
	assert.False(t, ParametersMatch([]string{"CharSequence"}, recorded))
	assert.True(t, ParametersMatch([]string{}, []string{}))
}

func TestSimpleTypeName(t *testing.T) {
	assert.Equal(t, "String[]", SimpleTypeName("java.lang.String[]"))
	assert.Equal(t, "CharSequence...", SimpleTypeName("java.lang.CharSequence..."))
	assert.Equal(t, "Map", SimpleTypeName("java.util.Map<K, V>"))
	assert.Equal(t, "int", SimpleTypeName("int"))
}
