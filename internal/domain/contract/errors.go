package contract

import "errors"

var (
	ErrContractNotFound       = errors.New("Contract not found")
	ErrContractTypeNotFound   = errors.New("Contract type not found")
	ErrContractTypeCodeExists = errors.New("A contract type with this code already exists")
	ErrContractTypeInactive   = errors.New("Contract type is inactive")
	ErrContractNotEditable    = errors.New("Only draft and active contracts can be edited")
)
