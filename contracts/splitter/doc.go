/*
Package splitter implements Splitter contract which accepts GAS deposits and
splits every deposit between two beneficiaries.

Deposits are ordinary GAS transfers to the contract address. Transfer data
selects the operation: an array of two beneficiary accounts splits the
amount in equal halves between them (the odd unit of an odd amount goes back
to the payer), null data credits the whole amount to the payer. Nothing is
paid out automatically: every credited account withdraws its own balance
with the withdraw method.

The account that deployed the contract is its owner. The owner can pause the
contract, which stops deposits and withdrawals, and resume it later.

# Contract notifications

SplitterCreated notification. Produced once on deployment.

	SplitterCreated:
	  - name: owner
	    type: Hash160

SplitPerformed notification. Produced on every split deposit.

	SplitPerformed:
	  - name: from
	    type: Hash160
	  - name: beneficiary1
	    type: Hash160
	  - name: beneficiary2
	    type: Hash160
	  - name: half
	    type: Integer
	  - name: remainder
	    type: Integer

AmountReceived notification. Produced on deposits without beneficiaries.

	AmountReceived:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

Withdrawal notification. Produced when GAS is sent back to an account.

	Withdrawal:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

Paused and Resumed notifications. Produced on pause state changes.

	Paused:
	  - name: owner
	    type: Hash160
	Resumed:
	  - name: owner
	    type: Hash160
*/
package splitter

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'o' -> interop.Hash160
    contract owner, sender of the deployment transaction
  - 'p' -> []byte{1}
    present only while the contract is paused
  - b<interop.Hash160> -> int
    withdrawable balance of the account, zero balances are not stored

# Accounting
Sum of all balances never exceeds GAS held by the contract.
*/
