// Command demo walks two accounts through a deposit, a failing withdrawal and
// a transfer, printing balances before and after.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/congo-pay/bank_account/internal/account"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer) error {
	acc1, err := account.New("ACC123", account.MustAmount("1000"))
	if err != nil {
		return err
	}
	acc2, err := account.New("ACC456", account.MustAmount("500"))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Initial Balances:")
	printAccounts(w, acc1, acc2)

	if err := acc1.Deposit(account.MustAmount("200")); err != nil {
		return err
	}

	// ACC456 only holds 500.
	if err := acc2.Withdraw(account.MustAmount("600")); err != nil {
		fmt.Fprintf(w, "Error during withdrawal: %v\n", err)
	}

	if err := acc1.Transfer(acc2, account.MustAmount("300")); err != nil {
		fmt.Fprintf(w, "Error during transfer: %v\n", err)
	}

	fmt.Fprintln(w, "Final Balances:")
	printAccounts(w, acc1, acc2)
	return nil
}

func printAccounts(w io.Writer, accts ...*account.Account) {
	for _, a := range accts {
		fmt.Fprintf(w, "Account %s\n", a)
	}
}
