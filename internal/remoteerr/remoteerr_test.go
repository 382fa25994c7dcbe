package remoteerr

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		code    Code
		message string
	}{
		{CodeRemoteTimeout, "repository remote timed out"},
		{CodePermissionDeniedPublicKey, "permission denied (publickey)"},
		{CodeNoSupportedAuthentication, "no supported authentication methods available; try starting an ssh agent"},
		{CodeOffline, "could not reach remote repository, are you offline?"},
		{CodeProxyAuthRequired, "proxy requires authentication"},
		{CodeNoRemoteConfigured, "no remote to list refs from"},
		{CodeSSHBadFileNumber, "bad file number — the remote port is likely unreachable"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			msg, ok := Classify(tt.code)
			if !ok {
				t.Fatalf("expected %q to be classified", tt.code)
			}
			if msg != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, msg)
			}
			if !IsRemote(tt.code) {
				t.Errorf("expected %q to be remote", tt.code)
			}
			if Message(tt.code) != tt.message {
				t.Errorf("Message(%q) = %q", tt.code, Message(tt.code))
			}
		})
	}

	if len(RemoteCodes()) != len(tests) {
		t.Errorf("expected %d remote codes, got %d", len(tests), len(RemoteCodes()))
	}
}

func TestClassify_Unknown(t *testing.T) {
	for _, code := range []Code{CodeNotARepository, CodeAuthenticationRequired, CodeUnknown, "", "permision-denied-publickey"} {
		if _, ok := Classify(code); ok {
			t.Errorf("expected %q to be unclassified", code)
		}
		if IsRemote(code) {
			t.Errorf("expected %q not to be remote", code)
		}
	}

	if got := Message(CodeNotARepository); got != "unclassified error: not-a-repository" {
		t.Errorf("unexpected fallback message %q", got)
	}
	if got := Message(""); got != "unclassified error: unknown" {
		t.Errorf("unexpected fallback message for empty code %q", got)
	}
}
