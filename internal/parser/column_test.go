package parser

import "testing"

func TestParseColumnDefinition(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantOK       bool
		wantDataType string
		wantSize     int
		wantLength   int
		wantUnsigned bool
		wantNullable bool
		wantDefault  string
		wantAutoInc  bool
	}{
		{
			name:         "varchar with size",
			text:         "varchar(64) NOT NULL",
			wantOK:       true,
			wantDataType: "varchar",
			wantSize:     64,
			wantLength:   64,
		},
		{
			name:         "unsigned int with auto_increment",
			text:         "int(11) unsigned NOT NULL AUTO_INCREMENT",
			wantOK:       true,
			wantDataType: "int",
			wantSize:     11,
			wantUnsigned: true,
			wantAutoInc:  true,
		},
		{
			name:         "nullable timestamp with default",
			text:         "timestamp NULL DEFAULT CURRENT_TIMESTAMP",
			wantOK:       true,
			wantDataType: "timestamp",
			wantNullable: true,
			wantDefault:  "CURRENT_TIMESTAMP",
		},
		{
			name:         "default null implies nullable",
			text:         "varchar(32) DEFAULT NULL",
			wantOK:       true,
			wantDataType: "varchar",
			wantSize:     32,
			wantLength:   32,
			wantNullable: true,
			wantDefault:  "NULL",
		},
		{
			name:         "quoted default",
			text:         "char(2) NOT NULL DEFAULT 'ID'",
			wantOK:       true,
			wantDataType: "char",
			wantSize:     2,
			wantLength:   2,
			wantDefault:  "'ID'",
		},
		{
			name:         "no null keyword defaults to not null",
			text:         "int(11)",
			wantOK:       true,
			wantDataType: "int",
			wantSize:     11,
		},
		{
			name:         "character set clause is tolerated",
			text:         "varchar(100) CHARACTER SET utf8 NOT NULL",
			wantOK:       true,
			wantDataType: "varchar",
			wantSize:     100,
			wantLength:   100,
		},
		{
			name:         "null inside a default literal is not nullability",
			text:         "varchar(16) DEFAULT 'NULL-ish'",
			wantOK:       true,
			wantDataType: "varchar",
			wantSize:     16,
			wantLength:   16,
			wantDefault:  "'NULL-ish'",
		},
		{
			name:   "garbage does not match",
			text:   "(not a type)",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := ParseColumnDefinition(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if def.DataType != tt.wantDataType {
				t.Errorf("DataType = %q, want %q", def.DataType, tt.wantDataType)
			}
			if def.TypeSize != tt.wantSize {
				t.Errorf("TypeSize = %d, want %d", def.TypeSize, tt.wantSize)
			}
			if def.Length != tt.wantLength {
				t.Errorf("Length = %d, want %d", def.Length, tt.wantLength)
			}
			if def.Unsigned != tt.wantUnsigned {
				t.Errorf("Unsigned = %v, want %v", def.Unsigned, tt.wantUnsigned)
			}
			if def.Nullable != tt.wantNullable {
				t.Errorf("Nullable = %v, want %v", def.Nullable, tt.wantNullable)
			}
			if def.Default != tt.wantDefault {
				t.Errorf("Default = %q, want %q", def.Default, tt.wantDefault)
			}
			if def.AutoIncrement != tt.wantAutoInc {
				t.Errorf("AutoIncrement = %v, want %v", def.AutoIncrement, tt.wantAutoInc)
			}
		})
	}
}

func TestColumnDefinitionRendering(t *testing.T) {
	def, ok := ParseColumnDefinition("int(10) unsigned NOT NULL DEFAULT 0")
	if !ok {
		t.Fatal("expected definition to parse")
	}
	if got, want := def.Type(), "int(10) unsigned"; got != want {
		t.Errorf("Type() = %q, want %q", got, want)
	}
	if got, want := def.Definition(), "int(10) unsigned NOT NULL DEFAULT 0"; got != want {
		t.Errorf("Definition() = %q, want %q", got, want)
	}
}
