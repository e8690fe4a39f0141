package host

import (
	"errors"
	"testing"

	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
)

func TestMemoryEnvironmentVariables(t *testing.T) {
	env := NewMemoryEnvironment()
	env.SetVariable(VariableCollectionURI, "https://dev.example.com/org/")

	value, err := env.RequireVariable(VariableCollectionURI)
	if err != nil {
		t.Fatalf("require variable: %v", err)
	}
	if value != "https://dev.example.com/org/" {
		t.Fatalf("unexpected value %q", value)
	}

	if _, ok := env.GetVariable("Absent.Variable"); ok {
		t.Fatal("expected absent variable to miss")
	}
	_, err = env.RequireVariable("Absent.Variable")
	if !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("expected missing variable error, got %v", err)
	}
}

func TestMemoryEnvironmentEndpoints(t *testing.T) {
	env := NewMemoryEnvironment()
	env.SetEndpoint(EndpointDescriptor{
		Name:           EndpointSystemVssConnection,
		URL:            "https://dev.example.com/",
		AuthParameters: map[string]string{AuthParameterAccessToken: "token-123"},
	})

	ep, err := env.RequireEndpoint(EndpointSystemVssConnection)
	if err != nil {
		t.Fatalf("require endpoint: %v", err)
	}
	token, ok := ep.AuthParameter(AuthParameterAccessToken)
	if !ok || token != "token-123" {
		t.Fatalf("unexpected access token %q (present=%v)", token, ok)
	}

	_, err = env.RequireEndpoint("MissingConnection")
	if !errors.Is(err, ErrMissingEndpoint) {
		t.Fatalf("expected missing endpoint error, got %v", err)
	}
	if xerrors.CodeOf(err) != xerrors.CodeMissingEndpoint {
		t.Fatalf("unexpected error code %v", xerrors.CodeOf(err))
	}
}

func TestVariableKey(t *testing.T) {
	cases := map[string]string{
		"System.TeamFoundationCollectionUri": "SYSTEM_TEAMFOUNDATIONCOLLECTIONURI",
		"Build.BuildId":                      "BUILD_BUILDID",
		"agent.proxy url":                    "AGENT_PROXY_URL",
	}
	for name, want := range cases {
		if got := VariableKey(name); got != want {
			t.Fatalf("VariableKey(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEnvEnvironment(t *testing.T) {
	t.Setenv("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI", "https://dev.example.com/org/")
	t.Setenv("ENDPOINT_URL_SYSTEMVSSCONNECTION", "https://dev.example.com/")
	t.Setenv("ENDPOINT_AUTH_SYSTEMVSSCONNECTION",
		`{"scheme":"OAuth","parameters":{"AccessToken":"token-456"}}`)

	env := NewEnvEnvironment()

	uri, err := env.RequireVariable(VariableCollectionURI)
	if err != nil {
		t.Fatalf("require variable: %v", err)
	}
	if uri != "https://dev.example.com/org/" {
		t.Fatalf("unexpected collection uri %q", uri)
	}

	ep, err := env.RequireEndpoint(EndpointSystemVssConnection)
	if err != nil {
		t.Fatalf("require endpoint: %v", err)
	}
	if ep.URL != "https://dev.example.com/" {
		t.Fatalf("unexpected endpoint url %q", ep.URL)
	}
	token, ok := ep.AuthParameter(AuthParameterAccessToken)
	if !ok || token != "token-456" {
		t.Fatalf("unexpected access token %q (present=%v)", token, ok)
	}

	_, err = env.RequireEndpoint("OtherConnection")
	if !errors.Is(err, ErrMissingEndpoint) {
		t.Fatalf("expected missing endpoint error, got %v", err)
	}
}

func TestEnvEnvironmentMalformedAuth(t *testing.T) {
	t.Setenv("ENDPOINT_URL_SYSTEMVSSCONNECTION", "https://dev.example.com/")
	t.Setenv("ENDPOINT_AUTH_SYSTEMVSSCONNECTION", "{not json")

	env := NewEnvEnvironment()
	ep, ok := env.GetEndpoint(EndpointSystemVssConnection)
	if !ok {
		t.Fatal("expected endpoint to resolve despite malformed auth")
	}
	if len(ep.AuthParameters) != 0 {
		t.Fatalf("expected no auth parameters, got %v", ep.AuthParameters)
	}
}
