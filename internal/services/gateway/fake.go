package gateway

import (
	"context"
	"sync"
)

type initiateOutcome struct {
	result *InitiateResult
	err    error
}

type verifyOutcome struct {
	result *VerifyResult
	err    error
}

// Fake is a scripted in-memory Gateway for tests and credential-less
// development. Outcomes are enqueued explicitly per call; with an empty
// script every call succeeds.
type Fake struct {
	mu sync.Mutex

	initiateScript []initiateOutcome
	verifyScript   []verifyOutcome

	initiateCalls int
	verifyCalls   int
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Provider() Provider {
	return ProviderFake
}

// ScriptInitiate enqueues the outcome of the next unscripted Initiate call.
func (f *Fake) ScriptInitiate(result *InitiateResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiateScript = append(f.initiateScript, initiateOutcome{result: result, err: err})
}

// ScriptVerify enqueues the outcome of the next unscripted Verify call.
func (f *Fake) ScriptVerify(result *VerifyResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyScript = append(f.verifyScript, verifyOutcome{result: result, err: err})
}

func (f *Fake) Initiate(_ context.Context, req *InitiateRequest) (*InitiateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.initiateCalls++

	if len(f.initiateScript) > 0 {
		outcome := f.initiateScript[0]
		f.initiateScript = f.initiateScript[1:]
		return outcome.result, outcome.err
	}

	return &InitiateResult{
		AuthorizationURL: "https://checkout.fake/pay/" + req.Reference,
		AccessCode:       "fake_code",
		Reference:        req.Reference,
	}, nil
}

func (f *Fake) Verify(_ context.Context, reference string) (*VerifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verifyCalls++

	if len(f.verifyScript) > 0 {
		outcome := f.verifyScript[0]
		f.verifyScript = f.verifyScript[1:]
		return outcome.result, outcome.err
	}

	return &VerifyResult{
		Reference: reference,
		Status:    StatusSuccess,
	}, nil
}

// InitiateCalls reports how many times Initiate reached the fake.
func (f *Fake) InitiateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initiateCalls
}

// VerifyCalls reports how many times Verify reached the fake.
func (f *Fake) VerifyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls
}
