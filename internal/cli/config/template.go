package config

const contextTemplateYAML = `# Context catalog for portalkit.
# Keep the sections you need and remove the rest.
contexts:
  - name: my-portal
    # Admin API of the application backend. Omit to work on the repository only.
    backend:
      endpoint: https://admin.example.com
      app-id: my-app
      auth:
        # Mutually exclusive: a literal token or the variable that holds it.
        token-env: PORTALKIT_TOKEN
        # token: change-me
      # Optional client side throttling.
      # rate-limit:
      #   requests-per-second: 5
      #   burst: 10
      # Optional TLS settings.
      # tls:
      #   ca-cert-file: /path/to/ca.pem
      #   insecure-skip-verify: false
      # timeout: 30s

    # Local working copy. Mutually exclusive: choose git or filesystem.
    repository:
      git:
        local:
          base-dir: /path/to/portal
          # auto-init: true
        # author:
        #   name: Portal Bot
        #   email: portal@example.com
      # filesystem:
      #   base-dir: /path/to/portal
      # max-file-size: 4194304

    # Locales synchronized by default.
    locales:
      - en

current-ctx: my-portal
`
