package parser

import "testing"

func TestParseAlterClause(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantKind AlterKind
	}{
		{
			name:     "add primary key",
			text:     "ALTER TABLE `d_lab` ADD PRIMARY KEY (`code`)",
			wantOK:   true,
			wantKind: AlterPrimary,
		},
		{
			name:     "modify column",
			text:     "ALTER TABLE `users` MODIFY `id` int(11) NOT NULL AUTO_INCREMENT",
			wantOK:   true,
			wantKind: AlterModify,
		},
		{
			name:     "add foreign key",
			text:     "ALTER TABLE `d_access_proposal` ADD CONSTRAINT `fk_lab` FOREIGN KEY (`labCode`) REFERENCES `d_lab` (`code`)",
			wantOK:   true,
			wantKind: AlterForeign,
		},
		{
			name:     "add unique key",
			text:     "ALTER TABLE `users` ADD UNIQUE KEY `uq_email` (`email`)",
			wantOK:   true,
			wantKind: AlterUnique,
		},
		{
			name:     "add plain key",
			text:     "ALTER TABLE `users` ADD KEY `idx_name` (`name`,`surname`)",
			wantOK:   true,
			wantKind: AlterIndex,
		},
		{
			name:   "unrecognized alter",
			text:   "ALTER TABLE `users` RENAME TO `people`",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, ok := ParseAlterClause(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if clause.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", clause.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseAlterClause_Foreign(t *testing.T) {
	clause, ok := ParseAlterClause("ALTER TABLE `d_access_proposal` ADD CONSTRAINT `fk_lab` FOREIGN KEY (`labCode`) REFERENCES `d_lab` (`code`)")
	if !ok {
		t.Fatal("expected clause to parse")
	}
	if clause.Table != "d_access_proposal" {
		t.Errorf("Table = %q", clause.Table)
	}
	if clause.Name != "fk_lab" {
		t.Errorf("Name = %q", clause.Name)
	}
	if clause.Column != "labCode" {
		t.Errorf("Column = %q", clause.Column)
	}
	if clause.Ref.Table != "d_lab" || clause.Ref.Column != "code" {
		t.Errorf("Ref = %+v", clause.Ref)
	}
}

func TestSplitMultiClauseAlter(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
	}{
		{
			name:      "single clause unchanged",
			text:      "ALTER TABLE `t` ADD PRIMARY KEY (`id`)",
			wantCount: 1,
		},
		{
			name:      "three clauses",
			text:      "ALTER TABLE `t` ADD PRIMARY KEY (`id`), ADD KEY `k` (`a`,`b`), ADD CONSTRAINT `fk` FOREIGN KEY (`a`) REFERENCES `p` (`id`)",
			wantCount: 3,
		},
		{
			name:      "modify pair",
			text:      "ALTER TABLE `t` MODIFY `a` int(11) NOT NULL, MODIFY `b` varchar(5) NOT NULL",
			wantCount: 2,
		},
		{
			name:      "references commas do not split",
			text:      "ALTER TABLE `t` ADD CONSTRAINT `fk` FOREIGN KEY (`a`) REFERENCES `p` (`id`), ADD KEY `k` (`a`) USING BTREE",
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMultiClauseAlter(tt.text)
			if len(got) != tt.wantCount {
				t.Fatalf("count = %d, want %d (%q)", len(got), tt.wantCount, got)
			}
			// every emitted statement must stand on its own
			for _, stmt := range got {
				if _, ok := ParseAlterClause(stmt); !ok {
					t.Errorf("emitted statement does not parse: %q", stmt)
				}
			}
		})
	}
}
