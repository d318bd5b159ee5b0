package main

import (
	"testing"

	"github.com/fabiopossato/F-bio/core/student"
	snapshotdb "github.com/fabiopossato/F-bio/storage/snapshot"
	inmemstore "github.com/fabiopossato/F-bio/storage/snapshot/inmem"
)

var stuRepo student.Repository

func setup(t *testing.T) *commandLine {
	store := inmemstore.Open()
	stuRepo = snapshotdb.NewStudentRepository(store)

	return &commandLine{
		store:       store,
		studentRepo: stuRepo,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func Test_commandLine_initDB(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "initdb"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	snap, err := cli.store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(snap.Students) != 2 || len(snap.Techniques) != 6 || len(snap.Academies) != 1 {
		t.Errorf("unexpected seed counts: %d students, %d techniques, %d academies",
			len(snap.Students), len(snap.Techniques), len(snap.Academies))
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "joao@ossflow.com"}, wantErr: errHelp},
		{name: "member not found", args: []string{"resetpassword", "-email", "lol@test.br"}, extra: extra{pwd: "lol"}, wantErr: student.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "joao@ossflow.com"}, extra: extra{pwd: "novasenha"}},
		{name: "reset with mixed-case email", args: []string{"resetpassword", "-email", "Joao@OssFlow.com"}, extra: extra{pwd: "outrasenha"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := stuRepo.GetStudentByEmail("joao@ossflow.com")
				if err != nil {
					t.Fatalf("GetStudentByEmail() failed: %v", err)
				}
				if extra, ok := tt.extra.(extra); ok && refreshed.Password != extra.pwd {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
