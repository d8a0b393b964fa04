/*
Package splitterconst holds values shared by the Splitter contract and its
off-chain clients.
*/
package splitterconst

// Failure prefixes. Every exception thrown by the Splitter contract starts
// with one of them followed by ": " and details.
const (
	// ErrAccessDenied is thrown when the invocation is not witnessed by
	// the account allowed to perform it.
	ErrAccessDenied = "access denied"
	// ErrInvalidArgument is thrown for null or malformed accounts, wrong
	// payment data and amounts that can't be accepted.
	ErrInvalidArgument = "invalid argument"
	// ErrSystemPaused is thrown by deposits and withdrawals while the
	// contract is paused.
	ErrSystemPaused = "system paused"
	// ErrInvalidState is thrown by pause/resume that don't change the
	// state and by withdrawals of an empty balance.
	ErrInvalidState = "invalid state"
	// ErrTransferFailure is thrown when GAS refuses to move withdrawn funds.
	ErrTransferFailure = "transfer failure"
)

// MinSplitAmount is the smallest GAS amount (in fractional units) accepted
// for a split.
const MinSplitAmount = 2

// Notification names.
const (
	SplitterCreatedEvent = "SplitterCreated"
	SplitPerformedEvent  = "SplitPerformed"
	AmountReceivedEvent  = "AmountReceived"
	WithdrawalEvent      = "Withdrawal"
	PausedEvent          = "Paused"
	ResumedEvent         = "Resumed"
)
