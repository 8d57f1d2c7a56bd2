package database

import "testing"

func TestBackupArgsEmptyEnv(t *testing.T) {
	t.Setenv("DB_BACKUP_FLAGS", "")
	if got := backupArgs(); len(got) != 0 {
		t.Fatalf("got %v, want no args", got)
	}
}

func TestBackupArgsSplitsFlags(t *testing.T) {
	t.Setenv("DB_BACKUP_FLAGS", "  -h localhost  -p 5432 ")
	got := backupArgs()
	want := []string{"-h", "localhost", "-p", "5432"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}
