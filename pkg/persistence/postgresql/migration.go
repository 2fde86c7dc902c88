package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE flows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				organization_id VARCHAR(255) NOT NULL,
				event_id VARCHAR(255) NOT NULL DEFAULT '',
				template_id VARCHAR(255) NOT NULL DEFAULT '',
				triggers JSONB NOT NULL DEFAULT '[]',
				actions JSONB NOT NULL DEFAULT '[]',
				active BOOLEAN NOT NULL DEFAULT false,
				template BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_flows_organization_id ON flows(organization_id);
			CREATE INDEX idx_flows_event_id ON flows(event_id);
			CREATE INDEX idx_flows_created_at ON flows(created_at);
		`,
		2: `
			-- Audit columns
			ALTER TABLE flows
				ADD COLUMN created_by VARCHAR(255) NOT NULL DEFAULT '',
				ADD COLUMN updated_by VARCHAR(255) NOT NULL DEFAULT '';

			CREATE INDEX idx_flows_active ON flows(active) WHERE active;
			CREATE INDEX idx_flows_template_id ON flows(template_id);
		`,
	}
}
