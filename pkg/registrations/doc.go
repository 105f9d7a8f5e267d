// Package registrations maintains the extensions manifest consumed by the
// Open VSX publishing pipeline.
//
// The file has the shape
//
//	{
//	  "extensions": [
//	    {"id": "redhat.vscode-yaml", "repository": "https://github.com/redhat-developer/vscode-yaml"}
//	  ]
//	}
//
// Entries may carry additional keys used by the pipeline (build commands,
// custom locations); they are preserved verbatim across rewrites.
//
// New entries are resolved by shallow-cloning the candidate's repository and
// reading its package.json, so the recorded id and version reflect what the
// pipeline will actually build.
package registrations
