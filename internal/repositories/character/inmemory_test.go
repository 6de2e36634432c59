package character_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Zevankai/Equipment-Tool/internal/repositories/character"
)

func TestInMemoryRepositoryContract(t *testing.T) {
	suite.Run(t, &RepositoryContractSuite{
		newRepo: func(s *RepositoryContractSuite) (character.Repository, func()) {
			return character.NewInMemory(s.clock), nil
		},
	})
}
