package config

// Schema is the JSON schema for validating configuration files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "log_level": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "log_format": {
            "type": "string",
            "enum": ["json", "console"]
        },
        "reader": {
            "type": "object",
            "properties": {
                "bucket": {
                    "type": "string",
                    "minLength": 1
                },
                "key": {
                    "type": "string"
                },
                "prefix": {
                    "type": "string"
                },
                "region": {
                    "type": "string"
                },
                "endpoint_url": {
                    "type": "string"
                },
                "access_key_id": {
                    "type": "string"
                },
                "secret_access_key": {
                    "type": "string"
                },
                "force_path_style": {
                    "type": "boolean"
                }
            },
            "required": ["bucket"]
        },
        "filter": {
            "type": "object",
            "properties": {
                "required_exts": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "max_files": {
                    "type": "integer",
                    "minimum": 1
                },
                "recursive": {
                    "type": "boolean"
                },
                "filename_as_id": {
                    "type": "boolean"
                },
                "mode": {
                    "type": "string",
                    "enum": ["text", "binary"]
                },
                "error_policy": {
                    "type": "string",
                    "enum": ["fail_fast", "skip_failed"]
                },
                "fetch_concurrency": {
                    "type": "integer",
                    "minimum": 1
                }
            }
        },
        "persistence": {
            "type": "array",
            "items": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string"
                    },
                    "type": {
                        "type": "string",
                        "enum": ["s3", "local", "backblaze", "ssh"]
                    },
                    "enabled": {
                        "type": "boolean"
                    },
                    "options": {
                        "type": "object"
                    }
                },
                "required": ["name", "type"]
            }
        }
    },
    "required": ["reader"]
}`
