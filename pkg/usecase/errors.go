package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	ErrEmptyQuery = goerr.New("query must not be empty")
	ErrNoCaseIDs  = goerr.New("no case IDs given")
)
