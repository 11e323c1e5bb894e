package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validSubmission = `<?xml version="1.0" encoding="UTF-8"?>
<submission xmlns="urn:archivesim:archive:v1">
  <folder>
    <systemID>folder-1</systemID>
    <title>case folder</title>
    <externalKey>
      <subsystem>caseworks</subsystem>
      <key>2024-17</key>
    </externalKey>
    <registration>
      <title>incoming letter</title>
    </registration>
  </folder>
  <registration>
    <title>loose note</title>
    <parentFolder>
      <systemID>folder-1</systemID>
    </parentFolder>
  </registration>
</submission>`

const validUpdate = `<?xml version="1.0" encoding="UTF-8"?>
<update xmlns="urn:archivesim:archive:v1">
  <registrationUpdate>
    <externalKey>
      <subsystem>caseworks</subsystem>
      <key>2024-17</key>
    </externalKey>
    <title>renamed letter</title>
  </registrationUpdate>
</update>`

func TestSubmissionDecodesValidPayload(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	document, result := validator.Submission([]byte(validSubmission))
	require.True(t, result.Valid())
	require.NotNil(t, document)

	require.Len(t, document.Folders, 1)
	folder := document.Folders[0]
	require.Equal(t, "folder-1", folder.SystemID)
	require.Equal(t, "case folder", folder.Title)
	require.NotNil(t, folder.ExternalKey)
	require.Equal(t, "caseworks", folder.ExternalKey.Subsystem)
	require.Len(t, folder.Registrations, 1)
	require.Equal(t, "incoming letter", folder.Registrations[0].Title)

	require.Len(t, document.Registrations, 1)
	loose := document.Registrations[0]
	require.Equal(t, "loose note", loose.Title)
	require.NotNil(t, loose.ParentFolder)
	require.Equal(t, "folder-1", loose.ParentFolder.SystemID)
}

func TestSubmissionRejectsMissingTitle(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<submission xmlns="urn:archivesim:archive:v1">
  <registration>
    <systemID>reg-1</systemID>
  </registration>
</submission>`

	document, result := validator.Submission([]byte(payload))
	require.Nil(t, document)
	require.False(t, result.Valid())
	require.NotEmpty(t, result.First())
}

func TestSubmissionRejectsWrongRootElement(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<update xmlns="urn:archivesim:archive:v1">
  <registrationUpdate>
    <title>t</title>
  </registrationUpdate>
</update>`

	document, result := validator.Submission([]byte(payload))
	require.Nil(t, document)
	require.False(t, result.Valid())
}

func TestSubmissionRejectsMalformedXML(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	document, result := validator.Submission([]byte(`<submission xmlns="urn:archivesim:archive:v1">`))
	require.Nil(t, document)
	require.False(t, result.Valid())
	require.NotEmpty(t, result.First())
}

func TestValidationIsDeterministic(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<submission xmlns="urn:archivesim:archive:v1">
  <registration>
    <systemID>reg-1</systemID>
  </registration>
</submission>`)

	_, first := validator.Submission(payload)
	_, second := validator.Submission(payload)
	require.False(t, first.Valid())
	require.Equal(t, first, second)
}

func TestUpdateDecodesValidPayload(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	document, result := validator.Update([]byte(validUpdate))
	require.True(t, result.Valid())
	require.Len(t, document.Operations, 1)

	operation := document.Operations[0]
	require.Equal(t, "renamed letter", operation.Title)
	require.NotNil(t, operation.ExternalKey)
	require.Equal(t, "2024-17", operation.ExternalKey.Key)
}

func TestUpdateRequiresAtLeastOneOperation(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<update xmlns="urn:archivesim:archive:v1"/>`

	document, result := validator.Update([]byte(payload))
	require.Nil(t, document)
	require.False(t, result.Valid())
}

func TestSearchDecodesValidPayload(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<search xmlns="urn:archivesim:archive:v1">
  <query>letter</query>
  <responseDetail>extended</responseDetail>
  <maxHits>5</maxHits>
</search>`

	document, result := validator.Search([]byte(payload))
	require.True(t, result.Valid())
	require.Equal(t, "letter", document.Query)
	require.Equal(t, "extended", document.Detail)
	require.Equal(t, 5, document.MaxHits)
}

func TestSearchAcceptsEmptyRequest(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<search xmlns="urn:archivesim:archive:v1"/>`

	document, result := validator.Search([]byte(payload))
	require.True(t, result.Valid())
	require.Empty(t, document.Query)
	require.Zero(t, document.MaxHits)
}

func TestLookupDecodesValidPayload(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<lookup xmlns="urn:archivesim:archive:v1">
  <systemID>reg-1</systemID>
</lookup>`

	document, result := validator.Lookup([]byte(payload))
	require.True(t, result.Valid())
	require.Equal(t, "reg-1", document.SystemID)
	require.Nil(t, document.ExternalKey)
}

func TestLookupRejectsUnknownElement(t *testing.T) {
	t.Parallel()

	validator, err := New()
	require.NoError(t, err)

	payload := `<?xml version="1.0" encoding="UTF-8"?>
<lookup xmlns="urn:archivesim:archive:v1">
  <registrationID>reg-1</registrationID>
</lookup>`

	document, result := validator.Lookup([]byte(payload))
	require.Nil(t, document)
	require.False(t, result.Valid())
}
