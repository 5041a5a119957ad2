package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	parse func(data []byte, target any, key string) error
}

func (p stubParser) Parse(data []byte, target any, key string) error {
	return p.parse(data, target, key)
}

type stubFetcher struct {
	data []byte
	err  error
}

func (f stubFetcher) Fetch() ([]byte, error) {
	return f.data, f.err
}

type plainSettings struct {
	Name string
}

type checkedSettings struct {
	Name        string
	defaulted   bool
	validateErr error
	calls       []string
}

func (s *checkedSettings) SetDefaults() bool {
	s.calls = append(s.calls, "defaults")

	if s.Name == "" {
		s.Name = "default"
		s.defaulted = true
	}

	return s.defaulted
}

func (s *checkedSettings) Validate() error {
	s.calls = append(s.calls, "validate")

	return s.validateErr
}

func noopParser() stubParser {
	return stubParser{parse: func(_ []byte, _ any, _ string) error { return nil }}
}

func TestProvider_PassesKeyAndData(t *testing.T) {
	t.Parallel()

	var (
		gotData []byte
		gotKey  string
	)

	parser := stubParser{parse: func(data []byte, target any, key string) error {
		gotData = data
		gotKey = key

		settings, ok := target.(*plainSettings)
		if !ok {
			return errors.New("unexpected target type")
		}

		settings.Name = "parsed"

		return nil
	}}

	target := &plainSettings{}

	result, err := Provider(target, "services.api[0]")(parser, stubFetcher{data: []byte(`{}`)})
	require.NoError(t, err)

	assert.Same(t, target, result)
	assert.Equal(t, "parsed", result.Name)
	assert.Equal(t, []byte(`{}`), gotData)
	assert.Equal(t, "services.api[0]", gotKey)
}

func TestProvider_DefaultsRunBeforeValidation(t *testing.T) {
	t.Parallel()

	target := &checkedSettings{}

	result, err := Provider(target, "")(noopParser(), stubFetcher{})
	require.NoError(t, err)

	assert.Equal(t, "default", result.Name)
	assert.Equal(t, []string{"defaults", "validate"}, result.calls)
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("fetch failed")
	parseErr := errors.New("parse failed")
	validateErr := errors.New("validation failed")

	testCases := []struct {
		name        string
		fetcher     stubFetcher
		parser      stubParser
		validateErr error
		wantErr     error
		wantMessage string
	}{
		{
			name:        "fetch error",
			fetcher:     stubFetcher{err: fetchErr},
			parser:      noopParser(),
			wantErr:     fetchErr,
			wantMessage: `fetching "db"`,
		},
		{
			name:    "parse error",
			fetcher: stubFetcher{data: []byte("x")},
			parser: stubParser{parse: func(_ []byte, _ any, _ string) error {
				return parseErr
			}},
			wantErr:     parseErr,
			wantMessage: `parsing "db"`,
		},
		{
			name:        "validation error",
			fetcher:     stubFetcher{data: []byte("x")},
			parser:      noopParser(),
			validateErr: validateErr,
			wantErr:     validateErr,
			wantMessage: `validating "db"`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			target := &checkedSettings{validateErr: testCase.validateErr}

			result, err := Provider(target, "db")(testCase.parser, testCase.fetcher)

			assert.Nil(t, result)
			require.ErrorIs(t, err, testCase.wantErr)
			assert.Contains(t, err.Error(), testCase.wantMessage)
		})
	}
}
