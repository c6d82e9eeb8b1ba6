package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionMonth(t *testing.T) {
	tx := Transaction{Date: time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2025-03", tx.Month())
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{UserID: 1, Type: TransactionEntrada, ValueCents: 1500, Date: time.Now()}
	assert.NoError(t, valid.Validate())

	badType := Transaction{UserID: 1, Type: "transferencia", ValueCents: 1500, Date: time.Now()}
	assert.Error(t, badType.Validate())

	zeroValue := Transaction{UserID: 1, Type: TransactionSaida, ValueCents: 0, Date: time.Now()}
	assert.Error(t, zeroValue.Validate())
}

func TestEmployeeActiveCost(t *testing.T) {
	ativo := Employee{Status: EmployeeStatusAtivo}
	inativo := Employee{Status: EmployeeStatusInativo}

	assert.True(t, ativo.IsAtivo())
	assert.False(t, inativo.IsAtivo())
}
